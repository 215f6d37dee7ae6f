package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PaymentRepo reads payment records. Payments are written once by the session
// service at completion and are immutable afterwards, so there is no update
// path here.
type PaymentRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, filters models.Filters) ([]models.Payment, models.Metadata, error)
	SumProcessedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
