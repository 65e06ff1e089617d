package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/pkg/enums"
)

// Order is the central aggregate: tenant-owned, state-machine driven, with
// derived totals. TotalCents is always max(0, subtotal - discount).
type Order struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID            uuid.UUID          `gorm:"column:tenant_id;type:uuid;not null;index"`
	Status              enums.OrderStatus  `gorm:"column:status;not null;default:'pending'"`
	Source              enums.OrderSource  `gorm:"column:source;not null"`
	CustomerName        *string            `gorm:"column:customer_name"`
	CustomerEmail       *string            `gorm:"column:customer_email"`
	CustomerPhone       *string            `gorm:"column:customer_phone"`
	AssignedToUserID    *uuid.UUID         `gorm:"column:assigned_to_user_id;type:uuid"`
	PaymentMethod       *string            `gorm:"column:payment_method"`
	DiscountCents       int64              `gorm:"column:discount_cents;not null;default:0"`
	SubtotalCents       int64              `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents          int64              `gorm:"column:total_cents;not null;default:0"`
	PaymentPreferenceID *string            `gorm:"column:payment_preference_id"`
	PaymentURL          *string            `gorm:"column:payment_url"`
	CancelledFrom       *enums.OrderStatus `gorm:"column:cancelled_from"`
	PaidAt              *time.Time         `gorm:"column:paid_at"`
	Items               []OrderLineItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCustomerContact reports whether the shopper identified themselves enough
// to request a payment link on a public-store order.
func (o *Order) HasCustomerContact() bool {
	return o.CustomerName != nil && *o.CustomerName != "" &&
		o.CustomerEmail != nil && *o.CustomerEmail != ""
}
