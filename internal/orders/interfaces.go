package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	FindTenantProduct(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error)
	MembershipExists(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	CreateLineItem(ctx context.Context, item *models.OrderLineItem) error
	DeleteLineItem(ctx context.Context, itemID uuid.UUID) error
	FindLineItem(ctx context.Context, itemID uuid.UUID) (*models.OrderLineItem, error)
	FindLineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderLineItem, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PaymentLink is the checkout handle returned by the gateway bridge.
type PaymentLink struct {
	PreferenceID string
	URL          string
}

// PaymentLinker creates a checkout link for the order being transitioned to
// awaiting_payment. Implemented by the payments service; a failure here rolls
// the whole transition back.
type PaymentLinker interface {
	CreateLink(ctx context.Context, order *models.Order) (PaymentLink, error)
}
