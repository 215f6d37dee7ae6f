package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
)

// SessionRepo is the persistence seam for parking sessions. Lookup misses
// return (nil, nil), not an error.
type SessionRepo interface {
	Create(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ParkingSession, error)
	FindActiveByPlate(ctx context.Context, plate string) (*models.ParkingSession, error)
	List(ctx context.Context, filters models.Filters) ([]models.ParkingSession, models.Metadata, error)
	ListActive(ctx context.Context) ([]models.ParkingSession, error)
	CountByDate(ctx context.Context, date time.Time) (int, error)

	// Complete and Cancel perform a conditional update that only succeeds
	// while the session is still ACTIVE; a lost race surfaces as
	// types.ErrSessionNotActive.
	Complete(ctx context.Context, session *models.ParkingSession) error
	Cancel(ctx context.Context, session *models.ParkingSession) error
}

// PaymentRepo persists payment records synthesized at completion.
type PaymentRepo interface {
	Create(ctx context.Context, payment *models.Payment) error
}

// VehicleSource is the collaborator interface to the vehicle registry,
// consumed during session creation only.
type VehicleSource interface {
	FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
}

// EventPublisher receives lifecycle events after a successful transition.
// Publishing is best-effort: failures are logged, never propagated.
type EventPublisher interface {
	PublishSessionStarted(ctx context.Context, msg models.SessionEventMessage) error
	PublishSessionCompleted(ctx context.Context, msg models.SessionEventMessage) error
	PublishSessionCancelled(ctx context.Context, msg models.SessionEventMessage) error
}
