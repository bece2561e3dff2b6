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

// StaffAuthService handles employee authentication
type StaffAuthService struct {
	employeeRepo repositories.EmployeeRepository
	issuer       *jwt.Issuer
	revoked      revocation.Store
}

// NewStaffAuthService creates a new staff auth service
func NewStaffAuthService(
	employeeRepo repositories.EmployeeRepository,
	issuer *jwt.Issuer,
	revoked revocation.Store,
) *StaffAuthService {
	return &StaffAuthService{
		employeeRepo: employeeRepo,
		issuer:       issuer,
		revoked:      revoked,
	}
}

// StaffLoginInput represents staff login input
type StaffLoginInput struct {
	Username string
	Password string
}

// StaffAuthResponse represents staff authentication response
type StaffAuthResponse struct {
	Employee  *models.EmployeeResponse `json:"employee"`
	Token     string                   `json:"token"`
	Role      string                   `json:"role"`
	ExpiresAt time.Time                `json:"expiresAt"`
}

// Login authenticates an employee
func (s *StaffAuthService) Login(ctx context.Context, input *StaffLoginInput) (*StaffAuthResponse, error) {
	employee, err := s.employeeRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.VerifyMissing(input.Password)
			metrics.AuthAttempts.WithLabelValues(jwt.AudienceStaff, "invalid").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, employee.Password) {
		metrics.AuthAttempts.WithLabelValues(jwt.AudienceStaff, "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(jwt.Principal{
		ID:          employee.ID,
		DisplayName: employee.Username,
		Role:        employee.Role,
		Type:        jwt.TypeEmployee,
	})
	if err != nil {
		return nil, err
	}

	metrics.AuthAttempts.WithLabelValues(jwt.AudienceStaff, "success").Inc()
	log.Printf("✅ Employee logged in: %s (%s)", employee.Username, employee.Role)

	return &StaffAuthResponse{
		Employee:  employee.ToResponse(),
		Token:     token,
		Role:      employee.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes a staff token
func (s *StaffAuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	return s.revoked.Revoke(ctx, token, expiresAt)
}

// GetByID returns the signed-in employee
func (s *StaffAuthService) GetByID(ctx context.Context, id uint) (*models.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.ToResponse(), nil
}
