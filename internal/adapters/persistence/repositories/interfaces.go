package repositories

import (
	"context"
	"time"

	"paysecure/internal/adapters/persistence/models"
)

// UserRepository defines customer repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.User, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// EmployeeRepository defines staff repository interface
type EmployeeRepository interface {
	// Create stores an employee. A nil CreatedBy is routed to CreateSuperAdmin.
	Create(ctx context.Context, employee *models.Employee) error
	// CreateSuperAdmin stores the unique creator-less admin, or returns
	// domain.ErrSuperAdminExists.
	CreateSuperAdmin(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByUsername(ctx context.Context, username string) (*models.Employee, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error)
	// Delete removes a non-super-admin employee and reports whether a row matched.
	Delete(ctx context.Context, id uint) (bool, error)
}

// StatusTransition is a conditional status update. It applies only when the
// payment currently has one of From (and belongs to OwnerID when set).
type StatusTransition struct {
	PaymentID   uint
	OwnerID     *uint
	From        []string
	To          string
	ProcessedBy *uint
	At          time.Time
}

// HistoryFilter narrows staff history listings
type HistoryFilter struct {
	Status string
	Offset int
	Limit  int
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error)
	ListPending(ctx context.Context, offset, limit int) ([]*models.PaymentWithOwner, int64, error)
	ListProcessed(ctx context.Context, filter HistoryFilter) ([]*models.PaymentWithOwner, int64, error)
	SummaryByUser(ctx context.Context, userID uint) ([]models.StatusSummary, error)
	// TransitionStatus reports whether the conditional update matched a row.
	TransitionStatus(ctx context.Context, t StatusTransition) (bool, error)
	DeleteForUser(ctx context.Context, id, userID uint) (bool, error)
}

// RevokedTokenRepository defines revoked token repository interface
type RevokedTokenRepository interface {
	Create(ctx context.Context, token *models.RevokedToken) error
	ExistsActive(ctx context.Context, audience, tokenHash string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
