package tenants

import (
	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
)

// RoleDTO is the wire shape for a tenant role.
type RoleDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PublicTenantDTO is the storefront-facing view of a tenant. Internal flags
// and ticket settings never leave the dashboard surface.
type PublicTenantDTO struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func rolesToDTO(rows []models.Role) []RoleDTO {
	out := make([]RoleDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RoleDTO{ID: row.ID, Name: row.Name})
	}
	return out
}

// PublicTenantFromModel maps a tenant onto its storefront view.
func PublicTenantFromModel(tenant *models.Tenant) PublicTenantDTO {
	return PublicTenantDTO{
		Slug:     tenant.Slug,
		Name:     tenant.Name,
		Currency: tenant.Currency,
	}
}
