package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/shopspring/decimal"
)

type PaymentService struct {
	repo PaymentRepo
	log  logger.Logger
}

func NewPaymentService(repo PaymentRepo, log logger.Logger) *PaymentService {
	return &PaymentService{repo: repo, log: log}
}

// Get returns the payment with the given id or ErrPaymentNotFound.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	ctx = wrap.WithAction(ctx, "get_payment")

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if payment == nil {
		return nil, wrap.Error(ctx, types.ErrPaymentNotFound)
	}
	return payment, nil
}

// GetBySession returns the payment synthesized for the given session, or
// ErrPaymentNotFound when the session was cancelled or is still active.
func (s *PaymentService) GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.Payment, error) {
	ctx = wrap.WithAction(ctx, "get_payment_by_session")
	ctx = wrap.WithSessionID(ctx, sessionID.String())

	payment, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if payment == nil {
		return nil, wrap.Error(ctx, types.ErrPaymentNotFound)
	}
	return payment, nil
}

// List returns payment records, paginated.
func (s *PaymentService) List(ctx context.Context, filters models.Filters) ([]models.Payment, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_payments")
	return s.repo.List(ctx, filters)
}

// RevenueBetween sums the amounts of payments processed in [from, to).
func (s *PaymentService) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	ctx = wrap.WithAction(ctx, "sum_revenue")

	total, err := s.repo.SumProcessedBetween(ctx, from, to)
	if err != nil {
		return decimal.Zero, wrap.Error(ctx, err)
	}
	return total, nil
}
