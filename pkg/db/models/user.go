package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a minimal profile row; credential handling lives with the identity
// provider, not here.
type User struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string    `gorm:"column:email;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
