package admin

import (
	"context"
	"time"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/shopspring/decimal"
)

// SessionStats exposes the aggregate session queries behind the overview.
type SessionStats interface {
	ListActive(ctx context.Context) ([]models.ParkingSession, error)
	CountByDate(ctx context.Context, date time.Time) (int, error)
}

// RevenueSource sums payment amounts for a time window.
type RevenueSource interface {
	SumProcessedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// VehicleStats counts registry entries.
type VehicleStats interface {
	Count(ctx context.Context) (int, error)
}
