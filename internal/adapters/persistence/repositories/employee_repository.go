package repositories

import (
	"context"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create creates a new employee
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.CreatedBy == nil {
		return r.CreateSuperAdmin(ctx, employee)
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

// CreateSuperAdmin creates the creator-less admin inside a locking transaction
func (r *employeeRepository) CreateSuperAdmin(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Employee
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("created_by IS NULL").
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.ErrSuperAdminExists
		}

		employee.CreatedBy = nil
		employee.Role = string(domain.RoleAdmin)
		return tx.Create(employee).Error
	})
}

// GetByID gets an employee by ID
func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByUsername gets an employee by username
func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByUsername checks if username exists
func (r *employeeRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// List lists employees with pagination, oldest first
func (r *employeeRepository) List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error) {
	var employees []*models.Employee
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Delete hard deletes an employee. The super admin row never matches.
func (r *employeeRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("created_by IS NOT NULL").
		Delete(&models.Employee{})
	return res.RowsAffected > 0, res.Error
}
