package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/internal/tenants"
	"github.com/sgiraldob/vitrina-backend/internal/tickets"
	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
	"github.com/sgiraldob/vitrina-backend/pkg/types"
)

type stubTenantService struct {
	tenant    *models.Tenant
	roles     []tenants.RoleDTO
	memberErr error
	rolesErr  error
}

func (s stubTenantService) ResolveTenant(ctx context.Context, slug string) (*models.Tenant, error) {
	if s.tenant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
	}
	return s.tenant, nil
}

func (s stubTenantService) ResolvePublicTenant(ctx context.Context, slug string) (*models.Tenant, error) {
	return s.ResolveTenant(ctx, slug)
}

func (s stubTenantService) ListRoles(ctx context.Context, tenantID, actorUserID uuid.UUID) ([]tenants.RoleDTO, error) {
	if s.rolesErr != nil {
		return nil, s.rolesErr
	}
	return s.roles, nil
}

func (s stubTenantService) RequireMember(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	if s.memberErr != nil {
		return nil, s.memberErr
	}
	return &models.Membership{TenantID: tenantID, UserID: userID}, nil
}

func (s stubTenantService) MemberOf(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	return s.memberErr == nil, nil
}

func TestTenantRolesListsForMembers(t *testing.T) {
	tenant := storefrontTenant()
	svc := stubTenantService{
		tenant: tenant,
		roles: []tenants.RoleDTO{
			{ID: uuid.New(), Name: "admin"},
			{ID: uuid.New(), Name: "seller"},
		},
	}
	handler := TenantRoles(svc, nil)

	req := newDashboardRequest(http.MethodGet, "/api/v1/tenants/acme/roles", nil, uuid.New(), map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data []tenants.RoleDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].Name != "admin" {
		t.Fatalf("unexpected roles %+v", envelope.Data)
	}
}

func TestTenantRolesForbiddenForOutsiders(t *testing.T) {
	tenant := storefrontTenant()
	svc := stubTenantService{
		tenant:   tenant,
		rolesErr: pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this tenant"),
	}
	handler := TenantRoles(svc, nil)

	req := newDashboardRequest(http.MethodGet, "/api/v1/tenants/acme/roles", nil, uuid.New(), map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestTenantTicketSettingsDefaults(t *testing.T) {
	tenant := storefrontTenant()
	handler := TenantTicketSettings(stubTenantService{tenant: tenant}, nil)

	req := newDashboardRequest(http.MethodGet, "/api/v1/tenants/acme/ticket-settings", nil, uuid.New(), map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data tickets.Settings `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data != tickets.Defaults() {
		t.Fatalf("expected defaults, got %+v", envelope.Data)
	}
}

func TestTenantTicketSettingsAppliesOverrides(t *testing.T) {
	tenant := storefrontTenant()
	showCustomer := true
	footer := "Gracias por su compra"
	tenant.TicketOverrides = &types.TicketOverrides{
		ShowCustomer:  &showCustomer,
		FooterMessage: &footer,
	}
	handler := TenantTicketSettings(stubTenantService{tenant: tenant}, nil)

	req := newDashboardRequest(http.MethodGet, "/api/v1/tenants/acme/ticket-settings", nil, uuid.New(), map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var envelope struct {
		Data tickets.Settings `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.ShowCustomer || envelope.Data.FooterMessage != footer {
		t.Fatalf("overrides not applied: %+v", envelope.Data)
	}
	if !envelope.Data.ShowLogo {
		t.Fatal("untouched fields keep their defaults")
	}
}

func TestTenantTicketSettingsRequireMembership(t *testing.T) {
	tenant := storefrontTenant()
	handler := TenantTicketSettings(stubTenantService{
		tenant:    tenant,
		memberErr: pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this tenant"),
	}, nil)

	req := newDashboardRequest(http.MethodGet, "/api/v1/tenants/acme/ticket-settings", nil, uuid.New(), map[string]string{"slug": "acme"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
