package repositories

import (
	"context"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID regardless of owner
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByIDForUser gets a payment owned by userID
func (r *paymentRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser lists a user's payments, newest first
func (r *paymentRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Payment{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// ListPending lists pending payments with their owners, oldest first
func (r *paymentRepository) ListPending(ctx context.Context, offset, limit int) ([]*models.PaymentWithOwner, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", domain.StatusPending).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.PaymentWithOwner
	err := r.withOwner(ctx).
		Where("payments.status = ?", domain.StatusPending).
		Order("payments.created_at ASC").
		Order("payments.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListProcessed lists non-pending payments, most recently processed first
func (r *paymentRepository) ListProcessed(ctx context.Context, filter HistoryFilter) ([]*models.PaymentWithOwner, int64, error) {
	count := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status <> ?", domain.StatusPending)
	query := r.withOwner(ctx).
		Where("payments.status <> ?", domain.StatusPending)

	if filter.Status != "" {
		count = count.Where("status = ?", filter.Status)
		query = query.Where("payments.status = ?", filter.Status)
	}

	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.PaymentWithOwner
	err := query.
		Order("payments.processed_at DESC").
		Order("payments.updated_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// SummaryByUser counts and totals a user's payments per status
func (r *paymentRepository) SummaryByUser(ctx context.Context, userID uint) ([]models.StatusSummary, error) {
	var rows []models.StatusSummary
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// TransitionStatus performs the conditional status update in one statement
func (r *paymentRepository) TransitionStatus(ctx context.Context, t StatusTransition) (bool, error) {
	if len(t.From) == 0 {
		return false, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", t.PaymentID).
		Where("status IN ?", t.From)
	if t.OwnerID != nil {
		query = query.Where("user_id = ?", *t.OwnerID)
	}

	updates := map[string]interface{}{"status": t.To}
	if t.ProcessedBy != nil {
		updates["processed_by"] = *t.ProcessedBy
		updates["processed_at"] = t.At
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteForUser hard deletes a payment owned by userID
func (r *paymentRepository) DeleteForUser(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Delete(&models.Payment{})
	return res.RowsAffected > 0, res.Error
}

func (r *paymentRepository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, users.full_name AS owner_name, users.account_number AS owner_account_number").
		Joins("LEFT JOIN users ON users.id = payments.user_id")
}
