package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/core/domain"
	"paysecure/internal/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentService handles a customer's own payments
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	now         func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repositories.PaymentRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// CreatePaymentInput represents create payment input
type CreatePaymentInput struct {
	Amount           float64
	Currency         string
	PaymentMethod    string
	Description      string
	RecipientName    string
	RecipientAccount string
	SwiftCode        string
	Metadata         map[string]interface{}
}

// PaymentStats summarises a customer's payments
type PaymentStats struct {
	ByStatus    []models.StatusSummary `json:"byStatus"`
	TotalCount  int64                  `json:"totalCount"`
	TotalAmount float64                `json:"totalAmount"`
}

// List lists the owner's payments, newest first
func (s *PaymentService) List(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	return s.paymentRepo.ListByUser(ctx, userID, offset, limit)
}

// Get returns one payment. Payments owned by someone else are reported missing.
func (s *PaymentService) Get(ctx context.Context, userID, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// Create records a new pending payment
func (s *PaymentService) Create(ctx context.Context, userID uint, input *CreatePaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	payment := &models.Payment{
		UserID:           userID,
		Amount:           input.Amount,
		Currency:         currency,
		PaymentMethod:    input.PaymentMethod,
		Status:           string(domain.StatusPending),
		TransactionID:    "TXN-" + uuid.NewString(),
		Description:      input.Description,
		RecipientName:    input.RecipientName,
		RecipientAccount: input.RecipientAccount,
		SwiftCode:        strings.ToUpper(input.SwiftCode),
	}
	if len(input.Metadata) > 0 {
		payment.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment created: %s user=%d amount=%.2f %s", payment.TransactionID, userID, payment.Amount, payment.Currency)
	return payment, nil
}

// UpdateStatus settles or refunds one of the owner's payments
func (s *PaymentService) UpdateStatus(ctx context.Context, userID, id uint, status string) (*models.Payment, error) {
	target := domain.PaymentStatus(status)
	sources := domain.SourcesFor(domain.ActorOwner, target)
	if len(sources) == 0 {
		return nil, domain.ErrInvalidStatusTransition
	}

	from := make([]string, len(sources))
	for i, st := range sources {
		from[i] = string(st)
	}

	owner := userID
	applied, err := s.paymentRepo.TransitionStatus(ctx, repositories.StatusTransition{
		PaymentID: id,
		OwnerID:   &owner,
		From:      from,
		To:        string(target),
		At:        s.now(),
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		// Nothing matched: either the payment is gone or its status moved on.
		if _, err := s.Get(ctx, userID, id); err != nil {
			return nil, err
		}
		metrics.TransitionConflicts.WithLabelValues(string(domain.ActorOwner)).Inc()
		return nil, domain.ErrInvalidStatusTransition
	}

	metrics.PaymentTransitions.WithLabelValues(string(domain.ActorOwner), string(target)).Inc()
	log.Printf("✅ Payment %d -> %s by owner=%d", id, target, userID)
	return s.Get(ctx, userID, id)
}

// Delete hard-deletes one of the owner's payments
func (s *PaymentService) Delete(ctx context.Context, userID, id uint) error {
	deleted, err := s.paymentRepo.DeleteForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrPaymentNotFound
	}

	log.Printf("✅ Payment deleted: id=%d user=%d", id, userID)
	return nil
}

// Stats returns counts and totals per status, including empty statuses
func (s *PaymentService) Stats(ctx context.Context, userID uint) (*PaymentStats, error) {
	rows, err := s.paymentRepo.SummaryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]models.StatusSummary, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r
	}

	stats := &PaymentStats{ByStatus: make([]models.StatusSummary, 0, len(domain.AllStatuses))}
	for _, st := range domain.AllStatuses {
		row, ok := byStatus[string(st)]
		if !ok {
			row = models.StatusSummary{Status: string(st)}
		}
		stats.ByStatus = append(stats.ByStatus, row)
		stats.TotalCount += row.Count
		stats.TotalAmount += row.Total
	}
	return stats, nil
}
