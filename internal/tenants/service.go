package tenants

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/sgiraldob/vitrina-backend/pkg/errors"
)

// Service exposes tenant directory operations for both surfaces. The
// storefront lookups deliberately collapse "missing" and "not public" into
// the same not-found answer so the public API never leaks tenant existence.
type Service interface {
	ResolveTenant(ctx context.Context, slug string) (*models.Tenant, error)
	ResolvePublicTenant(ctx context.Context, slug string) (*models.Tenant, error)
	ListRoles(ctx context.Context, tenantID, actorUserID uuid.UUID) ([]RoleDTO, error)
	RequireMember(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error)
	MemberOf(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService builds a tenant service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenants repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ResolveTenant(ctx context.Context, slug string) (*models.Tenant, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant slug required")
	}
	tenant, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
	}
	return tenant, nil
}

func (s *service) ResolvePublicTenant(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant, err := s.ResolveTenant(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !tenant.PublicStoreEnabled {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
	}
	return tenant, nil
}

func (s *service) ListRoles(ctx context.Context, tenantID, actorUserID uuid.UUID) ([]RoleDTO, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if _, err := s.RequireMember(ctx, tenantID, actorUserID); err != nil {
		return nil, err
	}

	roles, err := s.repo.ListRoles(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list roles")
	}
	return rolesToDTO(roles), nil
}

func (s *service) RequireMember(ctx context.Context, tenantID, userID uuid.UUID) (*models.Membership, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	membership, err := s.repo.FindMembership(ctx, tenantID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this tenant")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return membership, nil
}

func (s *service) MemberOf(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	_, err := s.repo.FindMembership(ctx, tenantID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load membership")
	}
	return true, nil
}
