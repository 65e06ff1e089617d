package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/api/responses"
	"github.com/sgiraldob/vitrina-backend/api/validators"
	"github.com/sgiraldob/vitrina-backend/internal/orders"
	"github.com/sgiraldob/vitrina-backend/internal/payments"
	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	"github.com/sgiraldob/vitrina-backend/pkg/enums"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
)

type dashboardDirectory interface {
	ResolveTenant(ctx context.Context, slug string) (*models.Tenant, error)
}

type createDashboardOrderRequest struct {
	Customer *customerPayload `json:"customer"`
}

// DashboardCreateOrder opens an order on behalf of a staff member.
func DashboardCreateOrder(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := dashboardTenant(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createDashboardOrderRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := orders.CreateInput{
			TenantID: tenant.ID,
			Source:   enums.OrderSourceDashboard,
			Actor:    actorFromRequest(r),
		}
		if payload.Customer != nil {
			customer := payload.Customer.toInput()
			input.Customer = &customer
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.ToDTO(order))
	}
}

// DashboardOrderDetail returns one order scoped to the tenant in the URL.
func DashboardOrderDetail(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orders.GetInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
			Actor:    actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// DashboardAddItem appends a product to an order's ledger.
func DashboardAddItem(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddItem(r.Context(), orders.AddItemInput{
			OrderID:   orderID,
			TenantID:  tenant.ID,
			ProductID: payload.ProductID,
			Qty:       payload.Qty,
			Actor:     actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// DashboardRemoveItem drops a line item from an order's ledger.
func DashboardRemoveItem(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RemoveItem(r.Context(), orders.RemoveItemInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
			ItemID:   itemID,
			Actor:    actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

type discountRequest struct {
	DiscountCents *int64 `json:"discount_cents" validate:"required,min=0"`
}

// DashboardApplyDiscount sets the absolute discount on an order.
func DashboardApplyDiscount(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload discountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ApplyDiscount(r.Context(), orders.DiscountInput{
			OrderID:       orderID,
			TenantID:      tenant.ID,
			DiscountCents: *payload.DiscountCents,
			Actor:         actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

type assignRequest struct {
	AssigneeUserID uuid.UUID `json:"assignee_user_id" validate:"required"`
}

// DashboardAssignOrder routes an order to a staff member of the same tenant.
func DashboardAssignOrder(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload assignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Assign(r.Context(), orders.AssignInput{
			OrderID:        orderID,
			TenantID:       tenant.ID,
			AssigneeUserID: payload.AssigneeUserID,
			Actor:          actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// DashboardSetCustomer updates contact details on an open order.
func DashboardSetCustomer(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload customerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetCustomer(r.Context(), orders.SetCustomerInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
			Customer: payload.toInput(),
			Actor:    actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// DashboardPaymentLink requests (or re-reads) the checkout link for an order.
func DashboardPaymentLink(dir dashboardDirectory, bridge paymentBridge, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := bridge.RequestLink(r.Context(), orders.RequestPaymentInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
			Actor:    actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// DashboardConfirmPayment verifies the payment with the gateway and marks the
// order paid on an approved verdict.
func DashboardConfirmPayment(dir dashboardDirectory, bridge paymentBridge, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := bridge.ConfirmPayment(r.Context(), payments.ConfirmInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
			ActorID:  actorFromRequest(r).UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// DashboardCancelOrder cancels an open order and records where it came from.
func DashboardCancelOrder(dir dashboardDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := dashboardOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Cancel(r.Context(), orders.CancelInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
			Actor:    actorFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

func dashboardTenant(r *http.Request, dir dashboardDirectory) (*models.Tenant, error) {
	slug, err := slugParam(r)
	if err != nil {
		return nil, err
	}
	return dir.ResolveTenant(r.Context(), slug)
}

func dashboardOrderScope(r *http.Request, dir dashboardDirectory) (*models.Tenant, uuid.UUID, error) {
	tenant, err := dashboardTenant(r, dir)
	if err != nil {
		return nil, uuid.Nil, err
	}
	orderID, err := uuidParam(r, "orderId")
	if err != nil {
		return nil, uuid.Nil, err
	}
	return tenant, orderID, nil
}
