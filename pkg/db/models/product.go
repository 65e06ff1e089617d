package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable catalog entry owned by a tenant. Orders snapshot the
// price at add-to-order time, so later edits here never move past totals.
type Product struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int64     `gorm:"column:price_cents;not null"`
	Active     bool      `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
