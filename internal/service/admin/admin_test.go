package admin

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubSessionStats struct {
	active []models.ParkingSession
	today  int
}

func (s *stubSessionStats) ListActive(_ context.Context) ([]models.ParkingSession, error) {
	return s.active, nil
}

func (s *stubSessionStats) CountByDate(_ context.Context, _ time.Time) (int, error) {
	return s.today, nil
}

type stubRevenueSource struct {
	total decimal.Decimal
}

func (s *stubRevenueSource) SumProcessedBetween(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return s.total, nil
}

type stubVehicleStats struct {
	count int
}

func (s *stubVehicleStats) Count(_ context.Context) (int, error) {
	return s.count, nil
}

func TestGetOverviewAggregatesSnapshot(t *testing.T) {
	sessions := &stubSessionStats{
		active: []models.ParkingSession{
			{SpotLabel: "B-07"},
			{SpotLabel: "A-01"},
			{SpotLabel: ""},
		},
		today: 12,
	}
	service := NewAdminService(
		sessions,
		&stubRevenueSource{total: decimal.NewFromInt(18500)},
		&stubVehicleStats{count: 42},
		logger.InitLogger("test", logger.LevelError),
	)

	overview, err := service.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}

	if overview.ActiveSessions != 3 {
		t.Fatalf("active = %d, want 3", overview.ActiveSessions)
	}
	if overview.SessionsToday != 12 {
		t.Fatalf("sessions today = %d, want 12", overview.SessionsToday)
	}
	if !overview.RevenueToday.Equal(decimal.NewFromInt(18500)) {
		t.Fatalf("revenue = %s, want 18500", overview.RevenueToday)
	}
	if overview.VehiclesTracked != 42 {
		t.Fatalf("vehicles = %d, want 42", overview.VehiclesTracked)
	}
	// Blank spot labels are dropped and the rest come back sorted.
	if want := []string{"A-01", "B-07"}; !reflect.DeepEqual(overview.OccupiedSpots, want) {
		t.Fatalf("spots = %v, want %v", overview.OccupiedSpots, want)
	}
}

func TestGetOverviewWithEmptyLot(t *testing.T) {
	service := NewAdminService(
		&stubSessionStats{},
		&stubRevenueSource{total: decimal.Zero},
		&stubVehicleStats{},
		logger.InitLogger("test", logger.LevelError),
	)

	overview, err := service.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}
	if overview.ActiveSessions != 0 || len(overview.OccupiedSpots) != 0 {
		t.Fatalf("empty lot overview = %+v", overview)
	}
	if !overview.RevenueToday.IsZero() {
		t.Fatalf("revenue = %s, want 0", overview.RevenueToday)
	}
}
