package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/api/middleware"
	"github.com/sgiraldob/vitrina-backend/api/responses"
	"github.com/sgiraldob/vitrina-backend/api/validators"
	"github.com/sgiraldob/vitrina-backend/internal/orders"
	"github.com/sgiraldob/vitrina-backend/internal/payments"
	"github.com/sgiraldob/vitrina-backend/internal/tenants"
	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	"github.com/sgiraldob/vitrina-backend/pkg/enums"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
)

type storefrontDirectory interface {
	ResolvePublicTenant(ctx context.Context, slug string) (*models.Tenant, error)
}

type cartIndex interface {
	Attach(ctx context.Context, fingerprint string, tenantID, orderID uuid.UUID)
	ActiveOrder(ctx context.Context, fingerprint string, tenantID uuid.UUID) uuid.UUID
	Detach(ctx context.Context, fingerprint string, tenantID uuid.UUID)
}

type paymentBridge interface {
	RequestLink(ctx context.Context, input orders.RequestPaymentInput) (*models.Order, error)
	HandleReturn(ctx context.Context, orderID uuid.UUID, rawStatus string) (*payments.ReturnPayload, error)
	ConfirmPayment(ctx context.Context, input payments.ConfirmInput) (*models.Order, error)
}

// StorefrontStore returns the public view of a store. Disabled or unknown
// stores answer identically so existence never leaks.
func StorefrontStore(dir storefrontDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tenant, err := dir.ResolvePublicTenant(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tenants.PublicTenantFromModel(tenant))
	}
}

type createStorefrontOrderRequest struct {
	Customer *customerPayload `json:"customer"`
}

// StorefrontCreateOrder opens an anonymous cart and binds it to the shopper's
// fingerprint.
func StorefrontCreateOrder(dir storefrontDirectory, svc orders.Service, carts cartIndex, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tenant, err := dir.ResolvePublicTenant(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createStorefrontOrderRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := orders.CreateInput{
			TenantID: tenant.ID,
			Source:   enums.OrderSourcePublicStore,
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

		if carts != nil {
			carts.Attach(r.Context(), middleware.CartTokenFromContext(r.Context()), tenant.ID, order.ID)
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.ToDTO(order))
	}
}

// StorefrontActiveOrder resolves the cart currently bound to the shopper's
// fingerprint. Stale bindings to settled orders are dropped on sight.
func StorefrontActiveOrder(dir storefrontDirectory, svc orders.Service, carts cartIndex, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tenant, err := dir.ResolvePublicTenant(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fingerprint := middleware.CartTokenFromContext(r.Context())
		orderID := uuid.Nil
		if carts != nil {
			orderID = carts.ActiveOrder(r.Context(), fingerprint, tenant.ID)
		}
		if orderID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart"))
			return
		}

		order, err := svc.Get(r.Context(), orders.GetInput{OrderID: orderID, TenantID: tenant.ID})
		if err != nil {
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) && carts != nil {
				carts.Detach(r.Context(), fingerprint, tenant.ID)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.Status.IsTerminal() {
			if carts != nil {
				carts.Detach(r.Context(), fingerprint, tenant.ID)
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart"))
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// StorefrontOrderDetail returns one order scoped to the public store.
func StorefrontOrderDetail(dir storefrontDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := storefrontOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orders.GetInput{OrderID: orderID, TenantID: tenant.ID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,min=1"`
}

// StorefrontAddItem appends a product to the anonymous cart.
func StorefrontAddItem(dir storefrontDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := storefrontOrderScope(r, dir)
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
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// StorefrontRemoveItem drops a line item from the anonymous cart.
func StorefrontRemoveItem(dir storefrontDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := storefrontOrderScope(r, dir)
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
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// StorefrontSetCustomer records the shopper's contact details on the cart.
func StorefrontSetCustomer(dir storefrontDirectory, svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := storefrontOrderScope(r, dir)
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
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// StorefrontPaymentLink requests (or re-reads) the checkout link for a cart.
func StorefrontPaymentLink(dir storefrontDirectory, bridge paymentBridge, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, orderID, err := storefrontOrderScope(r, dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := bridge.RequestLink(r.Context(), orders.RequestPaymentInput{
			OrderID:  orderID,
			TenantID: tenant.ID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.ToDTO(order))
	}
}

// PaymentReturn lands the shopper coming back from the gateway. The status in
// the query string is echoed as a display hint and nothing else.
func PaymentReturn(bridge paymentBridge, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseQueryUUID(r, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rawStatus := strings.TrimSpace(r.URL.Query().Get("status"))

		payload, err := bridge.HandleReturn(r.Context(), orderID, rawStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

func storefrontOrderScope(r *http.Request, dir storefrontDirectory) (*models.Tenant, uuid.UUID, error) {
	slug, err := slugParam(r)
	if err != nil {
		return nil, uuid.Nil, err
	}
	tenant, err := dir.ResolvePublicTenant(r.Context(), slug)
	if err != nil {
		return nil, uuid.Nil, err
	}
	orderID, err := uuidParam(r, "orderId")
	if err != nil {
		return nil, uuid.Nil, err
	}
	return tenant, orderID, nil
}
