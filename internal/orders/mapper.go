package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	"github.com/sgiraldob/vitrina-backend/pkg/enums"
)

// LineItemDTO is the wire shape of a ledger entry.
type LineItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Qty            int       `json:"qty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	SubtotalCents  int64     `json:"subtotal_cents"`
}

// OrderDTO is the wire shape of an order. The gateway preference id stays
// internal; only the checkout URL is exposed.
type OrderDTO struct {
	ID               uuid.UUID          `json:"id"`
	TenantID         uuid.UUID          `json:"tenant_id"`
	Status           enums.OrderStatus  `json:"status"`
	Source           enums.OrderSource  `json:"source"`
	CustomerName     *string            `json:"customer_name,omitempty"`
	CustomerEmail    *string            `json:"customer_email,omitempty"`
	CustomerPhone    *string            `json:"customer_phone,omitempty"`
	AssignedToUserID *uuid.UUID         `json:"assigned_to_user_id,omitempty"`
	PaymentMethod    *string            `json:"payment_method,omitempty"`
	DiscountCents    int64              `json:"discount_cents"`
	SubtotalCents    int64              `json:"subtotal_cents"`
	TotalCents       int64              `json:"total_cents"`
	PaymentURL       *string            `json:"payment_url,omitempty"`
	CancelledFrom    *enums.OrderStatus `json:"cancelled_from,omitempty"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	Items            []LineItemDTO      `json:"items"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ToDTO maps an order aggregate onto its wire shape.
func ToDTO(order *models.Order) OrderDTO {
	items := make([]LineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		})
	}
	return OrderDTO{
		ID:               order.ID,
		TenantID:         order.TenantID,
		Status:           order.Status,
		Source:           order.Source,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		CustomerPhone:    order.CustomerPhone,
		AssignedToUserID: order.AssignedToUserID,
		PaymentMethod:    order.PaymentMethod,
		DiscountCents:    order.DiscountCents,
		SubtotalCents:    order.SubtotalCents,
		TotalCents:       order.TotalCents,
		PaymentURL:       order.PaymentURL,
		CancelledFrom:    order.CancelledFrom,
		PaidAt:           order.PaidAt,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}
