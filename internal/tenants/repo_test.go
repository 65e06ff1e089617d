//go:build db
// +build db

package tenants

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sgiraldob/vitrina-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("VITRINA_DB_DSN")
	if dsn == "" {
		t.Skip("VITRINA_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryDirectoryFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	tenant := &models.Tenant{
		ID:                 uuid.New(),
		Slug:               fmt.Sprintf("vt-test-%s", uuid.NewString()[:8]),
		Name:               "Repo Tenant",
		PublicStoreEnabled: true,
		Currency:           "COP",
	}
	if err := tx.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	user := &models.User{
		ID:          uuid.New(),
		Email:       fmt.Sprintf("vt_test_%s@example.com", uuid.NewString()),
		DisplayName: "Repo Member",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	roleSeller := &models.Role{ID: uuid.New(), TenantID: tenant.ID, Name: "seller"}
	roleAdmin := &models.Role{ID: uuid.New(), TenantID: tenant.ID, Name: "admin"}
	for _, role := range []*models.Role{roleSeller, roleAdmin} {
		if err := tx.Create(role).Error; err != nil {
			t.Fatalf("create role: %v", err)
		}
	}

	membership := &models.Membership{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		UserID:   user.ID,
		RoleID:   roleAdmin.ID,
	}
	if err := tx.Create(membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}

	found, err := repo.FindBySlug(ctx, tenant.Slug)
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if found.ID != tenant.ID {
		t.Fatalf("expected tenant %s, got %s", tenant.ID, found.ID)
	}

	roles, err := repo.ListRoles(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	if roles[0].Name != "admin" {
		t.Fatalf("expected roles ordered by name, got %s first", roles[0].Name)
	}

	fetched, err := repo.FindMembership(ctx, tenant.ID, user.ID)
	if err != nil {
		t.Fatalf("find membership: %v", err)
	}
	if fetched.Role == nil || fetched.Role.Name != "admin" {
		t.Fatalf("expected preloaded admin role, got %+v", fetched.Role)
	}

	if _, err := repo.FindMembership(ctx, tenant.ID, uuid.New()); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}

	dup := &models.Membership{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		UserID:   user.ID,
		RoleID:   roleSeller.ID,
	}
	if err := tx.Create(dup).Error; err == nil {
		t.Fatal("expected duplicate membership to fail")
	}
}
