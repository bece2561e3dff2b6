package config

import (
	"context"
	"errors"
	"log"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/core/domain"
	"paysecure/internal/pkg/password"
)

// SeedSuperAdmin creates the creator-less admin on first start.
// It is a no-op once a super admin exists.
func SeedSuperAdmin(ctx context.Context, repo repositories.EmployeeRepository, cfg SuperAdminConfig) error {
	log.Println("🌱 Checking super admin...")

	if cfg.Password == "" {
		log.Println("⚠️ SUPER_ADMIN_PASSWORD not set, skipping super admin seed")
		return nil
	}
	if !password.ValidatePassword(cfg.Password) {
		return errors.New("SUPER_ADMIN_PASSWORD is too short")
	}

	hashedPassword, err := password.Hash(cfg.Password)
	if err != nil {
		return err
	}

	admin := &models.Employee{
		Username: cfg.Username,
		Password: hashedPassword,
		Role:     string(domain.RoleAdmin),
	}

	err = repo.CreateSuperAdmin(ctx, admin)
	if errors.Is(err, domain.ErrSuperAdminExists) {
		log.Println("✅ Super admin already present")
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", admin.Username)
	return nil
}
