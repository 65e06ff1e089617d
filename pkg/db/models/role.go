package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named permission group scoped to a tenant.
type Role struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_roles_tenant_name"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_roles_tenant_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
