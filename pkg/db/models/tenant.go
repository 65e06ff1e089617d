package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/pkg/types"
)

// Tenant is a business with its own dashboard and optional public storefront.
type Tenant struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug               string                 `gorm:"column:slug;not null;uniqueIndex"`
	Name               string                 `gorm:"column:name;not null"`
	PublicStoreEnabled bool                   `gorm:"column:public_store_enabled;not null;default:false"`
	Currency           string                 `gorm:"column:currency;not null;default:'COP'"`
	TicketOverrides    *types.TicketOverrides `gorm:"column:ticket_overrides;type:jsonb;serializer:json"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
