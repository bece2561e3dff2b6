package config

import (
	"context"
	"testing"

	"paysecure/internal/core/domain"
	"paysecure/internal/pkg/password"
	"paysecure/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedSuperAdminOnce(t *testing.T) {
	password.SetCost(bcrypt.MinCost)
	repo := testutil.NewEmployeeRepo()
	ctx := context.Background()
	cfg := SuperAdminConfig{Username: "root_admin", Password: "ChangeMe123"}

	if err := SeedSuperAdmin(ctx, repo, cfg); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedSuperAdmin(ctx, repo, SuperAdminConfig{Username: "other_admin", Password: "ChangeMe123"}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	if n := repo.SuperAdminCount(); n != 1 {
		t.Fatalf("expected exactly one super admin, got %d", n)
	}

	admin, err := repo.GetByUsername(ctx, "root_admin")
	if err != nil {
		t.Fatal(err)
	}
	if !admin.IsSuperAdmin() || domain.Role(admin.Role) != domain.RoleAdmin {
		t.Errorf("seeded record is not the super admin: %+v", admin)
	}
	if admin.Password == cfg.Password || !password.Verify(cfg.Password, admin.Password) {
		t.Error("seeded password must be stored hashed")
	}
}

func TestSeedSuperAdminSkipsWithoutPassword(t *testing.T) {
	repo := testutil.NewEmployeeRepo()
	if err := SeedSuperAdmin(context.Background(), repo, SuperAdminConfig{Username: "root"}); err != nil {
		t.Fatal(err)
	}
	if repo.SuperAdminCount() != 0 {
		t.Fatal("nothing should be seeded without a password")
	}
}
