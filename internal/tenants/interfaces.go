package tenants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
)

// Repository defines persistence operations for tenant directory tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	ListRoles(ctx context.Context, tenantID uuid.UUID) ([]models.Role, error)
	FindMembership(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}
