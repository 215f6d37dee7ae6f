package admin

import (
	"context"
	"sort"
	"time"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
)

type AdminService struct {
	sessions SessionStats
	revenue  RevenueSource
	vehicles VehicleStats
	log      logger.Logger
}

func NewAdminService(sessions SessionStats, revenue RevenueSource, vehicles VehicleStats, log logger.Logger) *AdminService {
	return &AdminService{
		sessions: sessions,
		revenue:  revenue,
		vehicles: vehicles,
		log:      log,
	}
}

// GetOverview assembles the dashboard snapshot. Everything is recomputed
// from the source collections on each call; nothing here is cached.
func (s *AdminService) GetOverview(ctx context.Context) (*models.Overview, error) {
	ctx = wrap.WithAction(ctx, "admin_overview")

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	active, err := s.sessions.ListActive(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	sessionsToday, err := s.sessions.CountByDate(ctx, now)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	revenueToday, err := s.revenue.SumProcessedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	vehiclesTracked, err := s.vehicles.Count(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	spots := make([]string, 0, len(active))
	for _, session := range active {
		if session.SpotLabel != "" {
			spots = append(spots, session.SpotLabel)
		}
	}
	sort.Strings(spots)

	return &models.Overview{
		ActiveSessions:  len(active),
		SessionsToday:   sessionsToday,
		RevenueToday:    revenueToday,
		VehiclesTracked: vehiclesTracked,
		OccupiedSpots:   spots,
	}, nil
}
