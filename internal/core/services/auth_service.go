package services

import (
	"context"
	"errors"
	"log"
	"time"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/adapters/revocation"
	"paysecure/internal/core/domain"
	"paysecure/internal/pkg/jwt"
	"paysecure/internal/pkg/metrics"
	"paysecure/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles customer authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	issuer   *jwt.Issuer
	revoked  revocation.Store
}

// NewAuthService creates a new customer auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	issuer *jwt.Issuer,
	revoked revocation.Store,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		revoked:  revoked,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FullName      string
	AccountNumber string
	Password      string
}

// LoginInput represents login input
type LoginInput struct {
	FullName      string
	AccountNumber string
	Password      string
}

// AuthResponse represents customer authentication response
type AuthResponse struct {
	User      *models.UserResponse `json:"user"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

// Register registers a new customer and signs them in
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Check if account number already registered
	exists, err := s.userRepo.ExistsByAccountNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAccountNumberTaken
	}

	// 2. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user
	user := &models.User{
		FullName:      input.FullName,
		AccountNumber: input.AccountNumber,
		Password:      hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAccountNumberTaken
		}
		return nil, err
	}

	// 4. Issue token
	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Customer registered: id=%d", user.ID)
	return result, nil
}

// Login authenticates a customer
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByAccountNumber(ctx, input.AccountNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.VerifyMissing(input.Password)
			metrics.AuthAttempts.WithLabelValues(jwt.AudienceCustomer, "invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// The name is compared after bcrypt so every failure costs the same
	if !password.Verify(input.Password, user.Password) || user.FullName != input.FullName {
		metrics.AuthAttempts.WithLabelValues(jwt.AudienceCustomer, "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues(jwt.AudienceCustomer, "success").Inc()
	log.Printf("✅ Customer logged in: id=%d", user.ID)
	return result, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if err := s.revoked.Revoke(ctx, token, expiresAt); err != nil {
		return err
	}

	log.Printf("✅ Customer logged out")
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, expiresAt, err := s.issuer.Issue(jwt.Principal{
		ID:            user.ID,
		DisplayName:   user.FullName,
		AccountNumber: user.AccountNumber,
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
