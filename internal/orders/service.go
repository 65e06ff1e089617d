package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	"github.com/sgiraldob/vitrina-backend/pkg/enums"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
)

// Service owns the order state machine and the line-item ledger. Every
// mutating operation runs inside a transaction and takes a row lock on the
// order before reading status or items, so concurrent writers serialize
// per order.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, input GetInput) (*models.Order, error)
	Assign(ctx context.Context, input AssignInput) (*models.Order, error)
	ApplyDiscount(ctx context.Context, input DiscountInput) (*models.Order, error)
	AddItem(ctx context.Context, input AddItemInput) (*models.Order, error)
	RemoveItem(ctx context.Context, input RemoveItemInput) (*models.Order, error)
	SetCustomer(ctx context.Context, input SetCustomerInput) (*models.Order, error)
	RequestPayment(ctx context.Context, input RequestPaymentInput, linker PaymentLinker) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, method string) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order source must be dashboard or public_store")
	}

	tenant, err := s.repo.FindTenant(ctx, input.TenantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
	}

	switch input.Source {
	case enums.OrderSourceDashboard:
		if input.Actor.Anonymous() {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
		}
		if err := s.requireMember(ctx, s.repo, tenant.ID, input.Actor.UserID); err != nil {
			return nil, err
		}
	case enums.OrderSourcePublicStore:
		if !tenant.PublicStoreEnabled {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "public store is disabled")
		}
	}

	order := &models.Order{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Status:   enums.OrderStatusPending,
		Source:   input.Source,
	}
	if input.Customer != nil {
		order.CustomerName = input.Customer.Name
		order.CustomerEmail = input.Customer.Email
		order.CustomerPhone = input.Customer.Phone
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, input GetInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := scopeOrder(order, input.TenantID); err != nil {
		return nil, err
	}
	if err := s.authorizeShopper(ctx, s.repo, order, input.Actor); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Assign(ctx context.Context, input AssignInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.AssigneeUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee user id required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeStaff(ctx, repo, order, input.Actor); err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot assign a paid or cancelled order")
		}

		member, err := repo.MembershipExists(ctx, order.TenantID, input.AssigneeUserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check assignee membership")
		}
		if !member {
			return pkgerrors.New(pkgerrors.CodeInvalidAssignee, "assignee does not belong to this tenant")
		}

		assignee := input.AssigneeUserID
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"assigned_to_user_id": assignee,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignee")
		}

		order.AssignedToUserID = &assignee
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ApplyDiscount(ctx context.Context, input DiscountInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.DiscountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeStaff(ctx, repo, order, input.Actor); err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusAwaitingPayment {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "discount only applies to open orders")
		}

		order.DiscountCents = input.DiscountCents
		recomputeTotals(order)

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"discount_cents": order.DiscountCents,
			"subtotal_cents": order.SubtotalCents,
			"total_cents":    order.TotalCents,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount")
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeShopper(ctx, repo, order, input.Actor); err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot modify a paid or cancelled order")
		}

		product, err := repo.FindTenantProduct(ctx, order.TenantID, input.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		item := models.OrderLineItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      product.ID,
			Name:           product.Name,
			Qty:            input.Qty,
			UnitPriceCents: product.PriceCents,
			SubtotalCents:  product.PriceCents * int64(input.Qty),
		}
		if err := repo.CreateLineItem(ctx, &item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item")
		}

		order.Items = append(order.Items, item)
		recomputeTotals(order)

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"subtotal_cents": order.SubtotalCents,
			"total_cents":    order.TotalCents,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update totals")
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RemoveItem(ctx context.Context, input RemoveItemInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeShopper(ctx, repo, order, input.Actor); err != nil {
			return err
		}
		// items of settled orders are history, not editable state
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}

		var target *models.OrderLineItem
		for i := range order.Items {
			if order.Items[i].ID == input.ItemID {
				target = &order.Items[i]
				break
			}
		}
		if target == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}

		if err := repo.DeleteLineItem(ctx, target.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line item")
		}

		remaining := make([]models.OrderLineItem, 0, len(order.Items)-1)
		for _, item := range order.Items {
			if item.ID != input.ItemID {
				remaining = append(remaining, item)
			}
		}
		order.Items = remaining
		recomputeTotals(order)

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"subtotal_cents": order.SubtotalCents,
			"total_cents":    order.TotalCents,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update totals")
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) SetCustomer(ctx context.Context, input SetCustomerInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeShopper(ctx, repo, order, input.Actor); err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot modify a paid or cancelled order")
		}

		updates := map[string]any{}
		if input.Customer.Name != nil {
			order.CustomerName = input.Customer.Name
			updates["customer_name"] = *input.Customer.Name
		}
		if input.Customer.Email != nil {
			order.CustomerEmail = input.Customer.Email
			updates["customer_email"] = *input.Customer.Email
		}
		if input.Customer.Phone != nil {
			order.CustomerPhone = input.Customer.Phone
			updates["customer_phone"] = *input.Customer.Phone
		}
		if len(updates) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no customer fields provided")
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RequestPayment(ctx context.Context, input RequestPaymentInput, linker PaymentLinker) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if linker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment linker required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeShopper(ctx, repo, order, input.Actor); err != nil {
			return err
		}

		switch order.Status {
		case enums.OrderStatusAwaitingPayment:
			// duplicate request: the lock serialized us behind the first
			// caller, return the stored link untouched
			result = order
			return nil
		case enums.OrderStatusPaid, enums.OrderStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already settled")
		}

		if len(order.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order has no items to charge")
		}
		if order.Source == enums.OrderSourcePublicStore && !order.HasCustomerContact() {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer name and email are required before payment")
		}

		link, err := linker.CreateLink(ctx, order)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeGateway, err, "create payment link")
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":                enums.OrderStatusAwaitingPayment,
			"payment_preference_id": link.PreferenceID,
			"payment_url":           link.URL,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment link")
		}

		order.Status = enums.OrderStatusAwaitingPayment
		order.PaymentPreferenceID = &link.PreferenceID
		order.PaymentURL = &link.URL
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID, method string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if method == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusAwaitingPayment {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only awaiting_payment orders can be marked paid")
		}

		paidAt := time.Now().UTC()
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":         enums.OrderStatusPaid,
			"payment_method": method,
			"paid_at":        paidAt,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}

		order.Status = enums.OrderStatusPaid
		order.PaymentMethod = &method
		order.PaidAt = &paidAt
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := lockOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := scopeOrder(order, input.TenantID); err != nil {
			return err
		}
		if err := s.authorizeStaff(ctx, repo, order, input.Actor); err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already settled")
		}

		cancelledFrom := order.Status
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":         enums.OrderStatusCancelled,
			"cancelled_from": cancelledFrom,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		order.Status = enums.OrderStatusCancelled
		order.CancelledFrom = &cancelledFrom
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func lockOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindOrderForUpdate(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// scopeOrder hides orders from callers scoped to a different tenant.
func scopeOrder(order *models.Order, tenantID uuid.UUID) error {
	if tenantID != uuid.Nil && order.TenantID != tenantID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

// authorizeShopper allows anonymous actors on public-store orders and
// requires tenant membership for everyone else.
func (s *service) authorizeShopper(ctx context.Context, repo Repository, order *models.Order, actor Actor) error {
	if actor.Anonymous() {
		if order.Source != enums.OrderSourcePublicStore {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
		}
		return nil
	}
	return s.requireMember(ctx, repo, order.TenantID, actor.UserID)
}

// authorizeStaff requires an authenticated tenant member regardless of the
// order's source. Assignment, discounts, and cancellation are staff-only.
func (s *service) authorizeStaff(ctx context.Context, repo Repository, order *models.Order, actor Actor) error {
	if actor.Anonymous() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.requireMember(ctx, repo, order.TenantID, actor.UserID)
}

func (s *service) requireMember(ctx context.Context, repo Repository, tenantID, userID uuid.UUID) error {
	member, err := repo.MembershipExists(ctx, tenantID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this tenant")
	}
	return nil
}

// recomputeTotals re-derives subtotal and total from the in-memory item set.
// total = max(0, subtotal - discount).
func recomputeTotals(order *models.Order) {
	var subtotal int64
	for _, item := range order.Items {
		subtotal += item.SubtotalCents
	}
	total := subtotal - order.DiscountCents
	if total < 0 {
		total = 0
	}
	order.SubtotalCents = subtotal
	order.TotalCents = total
}
