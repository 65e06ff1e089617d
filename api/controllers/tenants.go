package controllers

import (
	"net/http"

	"github.com/sgiraldob/vitrina-backend/api/responses"
	"github.com/sgiraldob/vitrina-backend/internal/tenants"
	"github.com/sgiraldob/vitrina-backend/internal/tickets"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
)

// TenantRoles lists the assignable roles of a tenant for its members.
func TenantRoles(dir tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tenant, err := dir.ResolveTenant(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		roles, err := dir.ListRoles(r.Context(), tenant.ID, actorFromRequest(r).UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, roles)
	}
}

// TenantTicketSettings resolves the tenant's receipt configuration, overlaying
// stored overrides on the defaults.
func TenantTicketSettings(dir tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tenant, err := dir.ResolveTenant(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := dir.RequireMember(r.Context(), tenant.ID, actorFromRequest(r).UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tickets.Merge(tenant.TicketOverrides))
	}
}
