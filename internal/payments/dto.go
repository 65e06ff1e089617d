package payments

import (
	"github.com/google/uuid"
)

// ReturnPayload is what the redirect landing page renders. StatusHint comes
// from the gateway's query string and is display-only: Verified stays false
// until ConfirmPayment has checked the payment server-side.
type ReturnPayload struct {
	OrderID    uuid.UUID `json:"order_id"`
	TenantSlug string    `json:"tenant_slug"`
	StatusHint string    `json:"status_hint"`
	Verified   bool      `json:"verified"`
}

// ConfirmInput identifies the order whose payment should be verified.
type ConfirmInput struct {
	OrderID  uuid.UUID
	TenantID uuid.UUID
	ActorID  uuid.UUID
}
