package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/api/middleware"
	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	"github.com/sgiraldob/vitrina-backend/pkg/enums"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
)

func newDashboardRequest(method, target string, body io.Reader, userID uuid.UUID, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	if userID != uuid.Nil {
		ctx = middleware.WithUserID(ctx, userID.String())
	}
	return req.WithContext(ctx)
}

func dashboardOrder(tenantID uuid.UUID) *models.Order {
	return &models.Order{
		ID:       uuid.New(),
		TenantID: tenantID,
		Status:   enums.OrderStatusPending,
		Source:   enums.OrderSourceDashboard,
	}
}

func TestDashboardCreateOrderForwardsActor(t *testing.T) {
	tenant := storefrontTenant()
	userID := uuid.New()
	svc := &stubOrderService{order: dashboardOrder(tenant.ID)}
	handler := DashboardCreateOrder(stubDirectory{tenant: tenant}, svc, nil)

	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders", nil, userID, map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.createInput.Source != enums.OrderSourceDashboard {
		t.Fatalf("expected dashboard source, got %s", svc.createInput.Source)
	}
	if svc.createInput.Actor.UserID != userID {
		t.Fatalf("actor not forwarded: %+v", svc.createInput.Actor)
	}
}

func TestDashboardCreateOrderSurfacesForbidden(t *testing.T) {
	tenant := storefrontTenant()
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this tenant")}
	handler := DashboardCreateOrder(stubDirectory{tenant: tenant}, svc, nil)

	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders", nil, uuid.New(), map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestDashboardApplyDiscountAcceptsZero(t *testing.T) {
	tenant := storefrontTenant()
	order := dashboardOrder(tenant.ID)
	svc := &stubOrderService{order: order}
	handler := DashboardApplyDiscount(stubDirectory{tenant: tenant}, svc, nil)

	body := bytes.NewBufferString(`{"discount_cents":0}`)
	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders/"+order.ID.String()+"/discount", body,
		uuid.New(), map[string]string{"slug": "acme", "orderId": order.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.discountInput == nil || svc.discountInput.DiscountCents != 0 {
		t.Fatalf("expected zero discount forwarded, got %+v", svc.discountInput)
	}
}

func TestDashboardApplyDiscountRequiresField(t *testing.T) {
	tenant := storefrontTenant()
	order := dashboardOrder(tenant.ID)
	svc := &stubOrderService{order: order}
	handler := DashboardApplyDiscount(stubDirectory{tenant: tenant}, svc, nil)

	body := bytes.NewBufferString(`{}`)
	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders/"+order.ID.String()+"/discount", body,
		uuid.New(), map[string]string{"slug": "acme", "orderId": order.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.discountInput != nil {
		t.Fatal("service must not be reached without a discount value")
	}
}

func TestDashboardAssignSurfacesInvalidAssignee(t *testing.T) {
	tenant := storefrontTenant()
	order := dashboardOrder(tenant.ID)
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeInvalidAssignee, "assignee is not a member of this tenant")}
	handler := DashboardAssignOrder(stubDirectory{tenant: tenant}, svc, nil)

	body := bytes.NewBufferString(`{"assignee_user_id":"` + uuid.NewString() + `"}`)
	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders/"+order.ID.String()+"/assignee", body,
		uuid.New(), map[string]string{"slug": "acme", "orderId": order.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInvalidAssignee) {
		t.Fatalf("expected invalid assignee code, got %s", envelope.Error.Code)
	}
}

func TestDashboardConfirmPaymentDelegatesToBridge(t *testing.T) {
	tenant := storefrontTenant()
	order := dashboardOrder(tenant.ID)
	order.Status = enums.OrderStatusPaid
	userID := uuid.New()
	bridge := &stubPaymentBridge{order: order}
	handler := DashboardConfirmPayment(stubDirectory{tenant: tenant}, bridge, nil)

	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders/"+order.ID.String()+"/confirm-payment", nil,
		userID, map[string]string{"slug": "acme", "orderId": order.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if bridge.confirmInput == nil || bridge.confirmInput.OrderID != order.ID {
		t.Fatalf("confirm input not forwarded: %+v", bridge.confirmInput)
	}
	if bridge.confirmInput.ActorID != userID {
		t.Fatal("actor must reach the bridge for authorization")
	}
}

func TestDashboardPaymentLinkSurfacesGatewayError(t *testing.T) {
	tenant := storefrontTenant()
	order := dashboardOrder(tenant.ID)
	bridge := &stubPaymentBridge{err: pkgerrors.New(pkgerrors.CodeGateway, "payment gateway unavailable")}
	handler := DashboardPaymentLink(stubDirectory{tenant: tenant}, bridge, nil)

	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders/"+order.ID.String()+"/payment-link", nil,
		uuid.New(), map[string]string{"slug": "acme", "orderId": order.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardCancelOrder(t *testing.T) {
	tenant := storefrontTenant()
	order := dashboardOrder(tenant.ID)
	userID := uuid.New()
	svc := &stubOrderService{order: order}
	handler := DashboardCancelOrder(stubDirectory{tenant: tenant}, svc, nil)

	req := newDashboardRequest(http.MethodPost, "/api/v1/tenants/acme/orders/"+order.ID.String()+"/cancel", nil,
		userID, map[string]string{"slug": "acme", "orderId": order.ID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.cancelInput == nil || svc.cancelInput.Actor.UserID != userID {
		t.Fatalf("cancel input not forwarded: %+v", svc.cancelInput)
	}
}

func TestDashboardOrderDetailRejectsMalformedID(t *testing.T) {
	tenant := storefrontTenant()
	handler := DashboardOrderDetail(stubDirectory{tenant: tenant}, &stubOrderService{}, nil)

	req := newDashboardRequest(http.MethodGet, "/api/v1/tenants/acme/orders/nope", nil,
		uuid.New(), map[string]string{"slug": "acme", "orderId": "nope"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
