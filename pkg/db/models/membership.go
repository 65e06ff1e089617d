package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership links a user to a tenant through exactly one role.
type Membership struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_memberships_tenant_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_memberships_tenant_user"`
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;not null"`
	Role      *Role     `gorm:"foreignKey:RoleID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
