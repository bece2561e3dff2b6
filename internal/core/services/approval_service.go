package services

import (
	"context"
	"errors"
	"log"
	"time"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/adapters/persistence/repositories"
	"paysecure/internal/core/domain"
	"paysecure/internal/pkg/metrics"

	"gorm.io/gorm"
)

// ApprovalService handles staff decisions on pending payments
type ApprovalService struct {
	paymentRepo repositories.PaymentRepository
	now         func() time.Time
}

// NewApprovalService creates a new approval service
func NewApprovalService(paymentRepo repositories.PaymentRepository) *ApprovalService {
	return &ApprovalService{
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// ListPending lists payments awaiting a decision, oldest first
func (s *ApprovalService) ListPending(ctx context.Context, offset, limit int) ([]*models.PaymentWithOwner, int64, error) {
	return s.paymentRepo.ListPending(ctx, offset, limit)
}

// History lists decided payments, optionally narrowed to one status
func (s *ApprovalService) History(ctx context.Context, status string, offset, limit int) ([]*models.PaymentWithOwner, int64, error) {
	if status != "" {
		st := domain.PaymentStatus(status)
		if st == domain.StatusPending || !isKnownStatus(st) {
			return nil, 0, domain.ErrInvalidInput
		}
	}
	return s.paymentRepo.ListProcessed(ctx, repositories.HistoryFilter{
		Status: status,
		Offset: offset,
		Limit:  limit,
	})
}

// Process applies an approve or deny decision. The status, processor and
// timestamp are written in one conditional update so two staff members
// cannot both decide the same payment.
func (s *ApprovalService) Process(ctx context.Context, staffID, paymentID uint, action string) (*models.Payment, error) {
	target, ok := domain.ProcessAction(action).Target()
	if !ok {
		return nil, domain.ErrInvalidProcessAction
	}

	sources := domain.SourcesFor(domain.ActorStaff, target)
	from := make([]string, len(sources))
	for i, st := range sources {
		from[i] = string(st)
	}

	by := staffID
	applied, err := s.paymentRepo.TransitionStatus(ctx, repositories.StatusTransition{
		PaymentID:   paymentID,
		From:        from,
		To:          string(target),
		ProcessedBy: &by,
		At:          s.now(),
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		if _, err := s.get(ctx, paymentID); err != nil {
			return nil, err
		}
		metrics.TransitionConflicts.WithLabelValues(string(domain.ActorStaff)).Inc()
		return nil, domain.ErrPaymentAlreadyProcessed
	}

	metrics.PaymentTransitions.WithLabelValues(string(domain.ActorStaff), string(target)).Inc()
	log.Printf("✅ Payment %d %s by employee=%d", paymentID, target, staffID)
	return s.get(ctx, paymentID)
}

func (s *ApprovalService) get(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func isKnownStatus(st domain.PaymentStatus) bool {
	for _, s := range domain.AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}
