package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/metrics"
	"github.com/ironslayer/parking-management-system/pkg/trm"
	"github.com/shopspring/decimal"
)

const defaultCancellationNote = "cancelled by operator"

type SessionService struct {
	repo     SessionRepo
	payments PaymentRepo
	vehicles VehicleSource
	rates    RateTable
	trm      trm.TxManager
	events   EventPublisher
	log      logger.Logger
}

func NewSessionService(
	repo SessionRepo,
	payments PaymentRepo,
	vehicles VehicleSource,
	rates RateTable,
	txManager trm.TxManager,
	events EventPublisher,
	log logger.Logger,
) *SessionService {
	return &SessionService{
		repo:     repo,
		payments: payments,
		vehicles: vehicles,
		rates:    rates,
		trm:      txManager,
		events:   events,
		log:      log,
	}
}

// Start opens a new ACTIVE session for the vehicle with the given plate.
// The hourly rate is snapshotted from the rate table at this point and never
// recomputed, regardless of later tariff changes.
func (s *SessionService) Start(ctx context.Context, plate, spotLabel string, operatorID uuid.UUID, notes *string) (*models.ParkingSession, error) {
	ctx = wrap.WithAction(ctx, "start_session")

	var created *models.ParkingSession

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		vehicle, err := s.vehicles.FindByPlate(ctx, plate)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not look up vehicle: %w", err))
		}
		if vehicle == nil {
			return wrap.Error(ctx, types.ErrVehicleNotFound)
		}
		if !vehicle.IsActive {
			return wrap.Error(ctx, types.ErrVehicleInactive)
		}

		// Duplicate-active check is enforced at creation time only; the
		// partial unique index backs it up against concurrent creators.
		active, err := s.repo.FindActiveByPlate(ctx, plate)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not check for active session: %w", err))
		}
		if active != nil {
			return wrap.Error(ctx, types.ErrDuplicateActiveSession)
		}

		now := time.Now().UTC()
		number, err := s.generateSessionNumber(ctx, now)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not generate session number: %w", err))
		}

		session := &models.ParkingSession{
			SessionNumber: number,
			VehicleID:     vehicle.ID,
			Plate:         vehicle.Plate,
			Status:        types.SessionActive,
			SpotLabel:     spotLabel,
			HourlyRate:    s.rates.RateFor(vehicle.Category),
			EntryTime:     now,
			OperatorID:    operatorID,
			Notes:         notes,
		}

		created, err = s.repo.Create(ctx, session)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create session in repo: %w", err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ActiveSessionsGauge.WithLabelValues(types.ServiceName).Inc()
	metrics.SessionsTotal.WithLabelValues(types.ServiceName, types.SessionActive.String()).Inc()

	s.publish(ctx, s.events.PublishSessionStarted, created)

	return created, nil
}

// Complete transitions an ACTIVE session to COMPLETED, computes the total
// from the rate snapshot and synthesizes exactly one payment record.
func (s *SessionService) Complete(ctx context.Context, sessionID uuid.UUID, exitTime time.Time, method types.PaymentMethod, operatorID uuid.UUID, notes *string) (*models.ParkingSession, error) {
	ctx = wrap.WithAction(ctx, "complete_session")
	ctx = wrap.WithSessionID(ctx, sessionID.String())

	var completed *models.ParkingSession

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		session, err := s.repo.FindByID(ctx, sessionID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not load session: %w", err))
		}
		if session == nil {
			return wrap.Error(ctx, types.ErrSessionNotFound)
		}
		if session.Status != types.SessionActive {
			return wrap.Error(ctx, types.ErrSessionNotActive)
		}

		exit := exitTime.UTC()
		if exit.Before(session.EntryTime) {
			return wrap.Error(ctx, types.ErrExitBeforeEntry)
		}
		billedHours := BilledHours(session.EntryTime, exit)
		total := Cost(session.HourlyRate, billedHours)

		session.Status = types.SessionCompleted
		session.ExitTime = &exit
		session.TotalAmount = &total
		if notes != nil {
			session.Notes = notes
		}

		// Conditional update: lost double-completion races come back as
		// ErrSessionNotActive from the repo.
		if err := s.repo.Complete(ctx, session); err != nil {
			return wrap.Error(ctx, err)
		}

		payment := &models.Payment{
			ID:             uuid.New(),
			SessionID:      session.ID,
			Amount:         total,
			Method:         method,
			Status:         types.PaymentCompleted,
			TransactionRef: generateTransactionRef(exit),
			OperatorID:     operatorID,
			ProcessedAt:    exit,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not record payment: %w", err))
		}

		session.Payment = payment
		completed = session

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ActiveSessionsGauge.WithLabelValues(types.ServiceName).Dec()
	metrics.SessionsTotal.WithLabelValues(types.ServiceName, types.SessionCompleted.String()).Inc()
	metrics.PaymentsTotal.WithLabelValues(types.ServiceName, method.String()).Inc()

	s.publish(ctx, s.events.PublishSessionCompleted, completed)

	return completed, nil
}

// Cancel transitions an ACTIVE session to CANCELLED. No payment is created.
func (s *SessionService) Cancel(ctx context.Context, sessionID uuid.UUID, reason string, operatorID uuid.UUID) (*models.ParkingSession, error) {
	ctx = wrap.WithAction(ctx, "cancel_session")
	ctx = wrap.WithSessionID(ctx, sessionID.String())

	var cancelled *models.ParkingSession

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		session, err := s.repo.FindByID(ctx, sessionID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not load session: %w", err))
		}
		if session == nil {
			return wrap.Error(ctx, types.ErrSessionNotFound)
		}
		if session.Status != types.SessionActive {
			return wrap.Error(ctx, types.ErrSessionNotActive)
		}

		now := time.Now().UTC()
		note := defaultCancellationNote
		if reason != "" {
			note = reason
		}

		session.Status = types.SessionCancelled
		session.ExitTime = &now
		session.Notes = &note

		if err := s.repo.Cancel(ctx, session); err != nil {
			return wrap.Error(ctx, err)
		}

		cancelled = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ActiveSessionsGauge.WithLabelValues(types.ServiceName).Dec()
	metrics.SessionsTotal.WithLabelValues(types.ServiceName, types.SessionCancelled.String()).Inc()

	s.publish(ctx, s.events.PublishSessionCancelled, cancelled)

	return cancelled, nil
}

// EstimateCost returns the stored total for a COMPLETED session, a live
// estimate against the given wall-clock time for an ACTIVE one, and zero for
// a CANCELLED one. The estimate uses the same rounding rule as completion
// and is never persisted.
func (s *SessionService) EstimateCost(ctx context.Context, sessionID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	ctx = wrap.WithAction(ctx, "estimate_session_cost")

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return decimal.Zero, wrap.Error(ctx, fmt.Errorf("could not load session: %w", err))
	}
	if session == nil {
		return decimal.Zero, wrap.Error(ctx, types.ErrSessionNotFound)
	}

	switch session.Status {
	case types.SessionCompleted:
		return *session.TotalAmount, nil
	case types.SessionCancelled:
		return decimal.Zero, nil
	default:
		return Cost(session.HourlyRate, BilledHours(session.EntryTime, at.UTC())), nil
	}
}

// List returns all sessions, paginated.
func (s *SessionService) List(ctx context.Context, filters models.Filters) ([]models.ParkingSession, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_sessions")
	return s.repo.List(ctx, filters)
}

// ListActive returns the sessions currently in progress. The view is
// recomputed from the source collection on every read; there is no second
// mutable copy to drift out of sync.
func (s *SessionService) ListActive(ctx context.Context) ([]models.ParkingSession, error) {
	ctx = wrap.WithAction(ctx, "list_active_sessions")
	return s.repo.ListActive(ctx)
}

// Get returns the session with the given id or ErrSessionNotFound.
func (s *SessionService) Get(ctx context.Context, sessionID uuid.UUID) (*models.ParkingSession, error) {
	ctx = wrap.WithAction(ctx, "get_session")

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if session == nil {
		return nil, wrap.Error(ctx, types.ErrSessionNotFound)
	}
	return session, nil
}

// FindActiveByPlate returns the plate's ACTIVE session, or (nil, nil) when
// there is none.
func (s *SessionService) FindActiveByPlate(ctx context.Context, plate string) (*models.ParkingSession, error) {
	ctx = wrap.WithAction(ctx, "find_active_by_plate")
	return s.repo.FindActiveByPlate(ctx, plate)
}

// publish sends a lifecycle event without letting a broker failure undo the
// committed transition.
func (s *SessionService) publish(ctx context.Context, fn func(context.Context, models.SessionEventMessage) error, session *models.ParkingSession) {
	if s.events == nil || session == nil {
		return
	}

	msg := models.SessionEventMessage{
		SessionID:     session.ID,
		SessionNumber: session.SessionNumber,
		Plate:         session.Plate,
		Status:        session.Status.String(),
		SpotLabel:     session.SpotLabel,
		TotalAmount:   session.TotalAmount,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.NewString(),
	}

	if err := fn(ctx, msg); err != nil {
		s.log.Error(ctx, "failed to publish session event", err, "session_id", session.ID)
	}
}
