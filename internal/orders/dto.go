package orders

import (
	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/pkg/enums"
)

// Actor identifies who is performing an operation. A zero UserID means the
// caller is an anonymous storefront shopper.
type Actor struct {
	UserID uuid.UUID
}

// Anonymous reports whether the actor carries no authenticated identity.
func (a Actor) Anonymous() bool {
	return a.UserID == uuid.Nil
}

// CustomerInput carries the shopper contact fields.
type CustomerInput struct {
	Name  *string
	Email *string
	Phone *string
}

// CreateInput captures everything needed to open an order.
type CreateInput struct {
	TenantID uuid.UUID
	Source   enums.OrderSource
	Customer *CustomerInput
	Actor    Actor
}

// GetInput scopes an order read. TenantID, when set, restricts the lookup to
// that tenant so dashboard reads cannot cross tenants.
type GetInput struct {
	OrderID  uuid.UUID
	TenantID uuid.UUID
	Actor    Actor
}

// AssignInput assigns a staff member to an order.
type AssignInput struct {
	OrderID        uuid.UUID
	TenantID       uuid.UUID
	AssigneeUserID uuid.UUID
	Actor          Actor
}

// DiscountInput applies an absolute discount to an order.
type DiscountInput struct {
	OrderID       uuid.UUID
	TenantID      uuid.UUID
	DiscountCents int64
	Actor         Actor
}

// AddItemInput adds a product snapshot to the order ledger.
type AddItemInput struct {
	OrderID   uuid.UUID
	TenantID  uuid.UUID
	ProductID uuid.UUID
	Qty       int
	Actor     Actor
}

// RemoveItemInput drops a line item from the order ledger.
type RemoveItemInput struct {
	OrderID  uuid.UUID
	TenantID uuid.UUID
	ItemID   uuid.UUID
	Actor    Actor
}

// SetCustomerInput updates shopper contact details on an open order.
type SetCustomerInput struct {
	OrderID  uuid.UUID
	TenantID uuid.UUID
	Customer CustomerInput
	Actor    Actor
}

// RequestPaymentInput moves an order toward checkout.
type RequestPaymentInput struct {
	OrderID  uuid.UUID
	TenantID uuid.UUID
	Actor    Actor
}

// CancelInput cancels an open order.
type CancelInput struct {
	OrderID  uuid.UUID
	TenantID uuid.UUID
	Actor    Actor
}
