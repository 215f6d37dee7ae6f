package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/shopspring/decimal"
)

// ParkingSession is one continuous occupancy of a spot by a vehicle.
//
// Invariants:
//   - at most one ACTIVE session per plate (partial unique index in Postgres);
//   - HourlyRate is snapshotted at creation and never recomputed;
//   - TotalAmount and Payment are set iff status is COMPLETED;
//   - ExitTime is set iff status is COMPLETED or CANCELLED.
type ParkingSession struct {
	ID            uuid.UUID           `json:"id"`
	SessionNumber string              `json:"session_number"`
	VehicleID     uuid.UUID           `json:"vehicle_id"`
	Plate         string              `json:"plate"`
	Status        types.SessionStatus `json:"status"`
	SpotLabel     string              `json:"spot_label"`

	HourlyRate  decimal.Decimal  `json:"hourly_rate"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`

	EntryTime time.Time  `json:"entry_time"`
	ExitTime  *time.Time `json:"exit_time,omitempty"`

	OperatorID uuid.UUID `json:"operator_id"`
	Notes      *string   `json:"notes,omitempty"`

	Payment *Payment `json:"payment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

/* ======================= rabbitmq / websocket ======================= */

// SessionEventMessage is published on every lifecycle transition.
type SessionEventMessage struct {
	SessionID     uuid.UUID        `json:"session_id"`
	SessionNumber string           `json:"session_number"`
	Plate         string           `json:"plate"`
	Status        string           `json:"status"`
	SpotLabel     string           `json:"spot_label"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	CorrelationID string           `json:"correlation_id"`
}

/* ======================= admin overview ======================= */

type Overview struct {
	ActiveSessions  int             `json:"active_sessions"`
	SessionsToday   int             `json:"sessions_today"`
	RevenueToday    decimal.Decimal `json:"revenue_today"`
	VehiclesTracked int             `json:"vehicles_tracked"`
	OccupiedSpots   []string        `json:"occupied_spots"`
}
