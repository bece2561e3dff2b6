package services

import (
	"context"
	"errors"
	"log"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/core/domain"
	"paysecure/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles customer self-service
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword changes the customer's password. It is the only update a
// customer record ever receives.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	// Verify old password
	if !password.Verify(input.OldPassword, user.Password) {
		return domain.ErrOldPasswordWrong
	}

	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrInvalidInput
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	log.Printf("✅ Password changed for customer id=%d", userID)
	return nil
}
