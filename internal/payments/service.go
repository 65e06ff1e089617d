package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgiraldob/vitrina-backend/internal/orders"
	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	"github.com/sgiraldob/vitrina-backend/pkg/enums"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
	"github.com/sgiraldob/vitrina-backend/pkg/mercadopago"
	"github.com/sgiraldob/vitrina-backend/pkg/metrics"
)

type gateway interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
	GetPayment(ctx context.Context, preferenceID string) (*mercadopago.Payment, error)
}

type orderEngine interface {
	Get(ctx context.Context, input orders.GetInput) (*models.Order, error)
	RequestPayment(ctx context.Context, input orders.RequestPaymentInput, linker orders.PaymentLinker) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, method string) (*models.Order, error)
}

type repository interface {
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
}

// Service bridges the order engine and the payment gateway. The engine owns
// every status transition; this service only builds preferences, reads the
// gateway's verdict, and relays it.
type Service struct {
	engine    orderEngine
	gateway   gateway
	repo      repository
	gwMetrics *metrics.GatewayMetrics
	publicURL string
}

// NewService builds the payment bridge.
func NewService(engine orderEngine, gw gateway, repo repository, gwMetrics *metrics.GatewayMetrics, publicURL string) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("order engine required")
	}
	if gw == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	return &Service{
		engine:    engine,
		gateway:   gw,
		repo:      repo,
		gwMetrics: gwMetrics,
		publicURL: publicURL,
	}, nil
}

// RequestLink moves the order toward checkout and returns it with the stored
// payment link. The transition itself runs inside the order engine.
func (s *Service) RequestLink(ctx context.Context, input orders.RequestPaymentInput) (*models.Order, error) {
	return s.engine.RequestPayment(ctx, input, s)
}

// CreateLink implements orders.PaymentLinker. It runs inside the engine's
// transaction, so an error here rolls the pending order back untouched.
func (s *Service) CreateLink(ctx context.Context, order *models.Order) (orders.PaymentLink, error) {
	tenant, err := s.repo.FindTenant(ctx, order.TenantID)
	if err != nil {
		return orders.PaymentLink{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant for preference")
	}

	req := mercadopago.PreferenceRequest{
		ExternalReference: order.ID.String(),
		Items:             preferenceItems(order),
		CurrencyID:        tenant.Currency,
	}
	if s.publicURL != "" {
		req.BackURL = fmt.Sprintf("%s/api/public/payments/return?order_id=%s", s.publicURL, order.ID)
	}

	s.gwMetrics.IncCall("create_preference")
	pref, err := s.gateway.CreatePreference(ctx, req)
	if err != nil {
		s.gwMetrics.IncFailure("create_preference")
		return orders.PaymentLink{}, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "create checkout preference")
	}
	return orders.PaymentLink{PreferenceID: pref.ID, URL: pref.InitPoint}, nil
}

// HandleReturn resolves the landing payload for the gateway redirect. It
// never touches order state: the raw status is an untrusted UX hint.
func (s *Service) HandleReturn(ctx context.Context, orderID uuid.UUID, rawStatus string) (*ReturnPayload, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	tenant, err := s.repo.FindTenant(ctx, order.TenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
	}

	return &ReturnPayload{
		OrderID:    order.ID,
		TenantSlug: tenant.Slug,
		StatusHint: normalizeHint(rawStatus),
		Verified:   false,
	}, nil
}

// ConfirmPayment verifies the payment against the gateway and, only on an
// approved verdict, marks the order paid with the gateway-reported method.
func (s *Service) ConfirmPayment(ctx context.Context, input ConfirmInput) (*models.Order, error) {
	order, err := s.engine.Get(ctx, orders.GetInput{
		OrderID:  input.OrderID,
		TenantID: input.TenantID,
		Actor:    orders.Actor{UserID: input.ActorID},
	})
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusAwaitingPayment || order.PaymentPreferenceID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no payment awaiting verification")
	}

	s.gwMetrics.IncCall("get_payment")
	payment, err := s.gateway.GetPayment(ctx, *order.PaymentPreferenceID)
	if err != nil {
		s.gwMetrics.IncFailure("get_payment")
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "fetch payment from gateway")
	}

	status := enums.PaymentStatus(payment.Status)
	if !status.IsApproved() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "gateway has not approved this payment").
			WithDetails(map[string]string{"gateway_status": payment.Status})
	}

	method := payment.Method
	if method == "" {
		method = "unknown"
	}
	return s.engine.MarkPaid(ctx, order.ID, method)
}

// preferenceItems maps the ledger onto gateway items. Orders with a discount
// collapse into a single consolidated item because the gateway rejects
// negative unit prices.
func preferenceItems(order *models.Order) []mercadopago.PreferenceItem {
	if order.DiscountCents > 0 || len(order.Items) == 0 {
		return []mercadopago.PreferenceItem{{
			Title:     fmt.Sprintf("Order %s", shortID(order.ID)),
			Quantity:  1,
			UnitPrice: mercadopago.CentsToAmount(order.TotalCents),
		}}
	}
	items := make([]mercadopago.PreferenceItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, mercadopago.PreferenceItem{
			Title:     item.Name,
			Quantity:  item.Qty,
			UnitPrice: mercadopago.CentsToAmount(item.UnitPriceCents),
		})
	}
	return items
}

func normalizeHint(raw string) string {
	switch enums.PaymentStatus(raw) {
	case enums.PaymentStatusApproved, enums.PaymentStatusPending,
		enums.PaymentStatusRejected, enums.PaymentStatusCancelled:
		return raw
	default:
		return "unknown"
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
