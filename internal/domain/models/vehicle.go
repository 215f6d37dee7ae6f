package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
)

// Vehicle is a registry entry. Sessions reference vehicles but never own them.
type Vehicle struct {
	ID       uuid.UUID             `json:"id"`
	Plate    string                `json:"plate"`
	Category types.VehicleCategory `json:"category"`

	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Color string `json:"color,omitempty"`

	OwnerName  string `json:"owner_name,omitempty"`
	OwnerPhone string `json:"owner_phone,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleUpdate carries optional field changes; nil means "leave unchanged".
// Plate and category are immutable after registration.
type VehicleUpdate struct {
	Make       *string
	Model      *string
	Color      *string
	OwnerName  *string
	OwnerPhone *string
}
