package services

import (
	"context"
	"errors"
	"log"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/core/domain"
	"paysecure/internal/core/policy"
	"paysecure/internal/pkg/password"

	"gorm.io/gorm"
)

// EmployeeService handles staff account administration
type EmployeeService struct {
	employeeRepo repositories.EmployeeRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repositories.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// CreateEmployeeInput represents create employee input
type CreateEmployeeInput struct {
	Username string
	Password string
	Role     string
}

// List lists employees
func (s *EmployeeService) List(ctx context.Context, offset, limit int) ([]*models.EmployeeResponse, int64, error) {
	employees, total, err := s.employeeRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.EmployeeResponse, len(employees))
	for i, e := range employees {
		responses[i] = e.ToResponse()
	}
	return responses, total, nil
}

// Create creates an employee on behalf of actorID
func (s *EmployeeService) Create(ctx context.Context, actorID uint, input *CreateEmployeeInput) (*models.EmployeeResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if role == "" {
		role = domain.RoleEmployee
	}
	if !role.ValidStaff() {
		return nil, domain.ErrInvalidRole
	}
	if !policy.CanGrantRole(domain.Role(actor.Role), actor.CreatedBy, role) {
		if role == domain.RoleAdmin {
			return nil, domain.ErrSuperAdminRequired
		}
		return nil, domain.ErrForbidden
	}

	exists, err := s.employeeRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	creator := actor.ID
	employee := &models.Employee{
		Username:  input.Username,
		Password:  hashedPassword,
		Role:      string(role),
		CreatedBy: &creator,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}

	log.Printf("✅ Employee created: %s (%s) by id=%d", employee.Username, employee.Role, actor.ID)
	return employee.ToResponse(), nil
}

// Delete removes an employee on behalf of actorID
func (s *EmployeeService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return domain.ErrCannotDeleteSelf
	}

	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	target, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEmployeeNotFound
		}
		return err
	}

	if target.IsSuperAdmin() {
		return domain.ErrCannotDeleteSuperAdmin
	}
	if domain.Role(target.Role) == domain.RoleAdmin && !actor.IsSuperAdmin() {
		return domain.ErrSuperAdminRequired
	}

	deleted, err := s.employeeRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrEmployeeNotFound
	}

	log.Printf("✅ Employee deleted: id=%d by id=%d", id, actorID)
	return nil
}

// loadActor re-reads the acting admin so role changes since token issue apply
func (s *EmployeeService) loadActor(ctx context.Context, actorID uint) (*models.Employee, error) {
	actor, err := s.employeeRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !policy.Allows(domain.Role(actor.Role), policy.ManageEmployees) {
		return nil, domain.ErrForbidden
	}
	return actor, nil
}
