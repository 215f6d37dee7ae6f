package dto

import (
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/validator"
)

type RegisterVehicleRequest struct {
	Plate      string `json:"plate"`
	Category   string `json:"category"`
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	Color      string `json:"color,omitempty"`
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerPhone string `json:"owner_phone,omitempty"`
}

func (r *RegisterVehicleRequest) ToModel() *models.Vehicle {
	return &models.Vehicle{
		Plate:      r.Plate,
		Category:   types.VehicleCategory(r.Category),
		Make:       r.Make,
		Model:      r.Model,
		Color:      r.Color,
		OwnerName:  r.OwnerName,
		OwnerPhone: r.OwnerPhone,
	}
}

func ValidateNewVehicle(v *validator.Validator, req *RegisterVehicleRequest) {
	v.Check(req.Plate != "", "plate", "must be provided")
	v.Check(len(req.Plate) <= 20, "plate", "must not be more than 20 bytes long")

	v.Check(req.Category != "", "category", "must be provided")
	v.Check(types.IsValidVehicleCategory(req.Category), "category", "must be one of COMPACT, MOTORCYCLE, HEAVY")

	v.Check(len(req.OwnerPhone) <= 30, "owner_phone", "must not be more than 30 bytes long")
}

type UpdateVehicleRequest struct {
	Make       *string `json:"make"`
	Model      *string `json:"model"`
	Color      *string `json:"color"`
	OwnerName  *string `json:"owner_name"`
	OwnerPhone *string `json:"owner_phone"`
}

func (r *UpdateVehicleRequest) ToModel() models.VehicleUpdate {
	return models.VehicleUpdate{
		Make:       r.Make,
		Model:      r.Model,
		Color:      r.Color,
		OwnerName:  r.OwnerName,
		OwnerPhone: r.OwnerPhone,
	}
}

func ValidateVehicleUpdate(v *validator.Validator, req *UpdateVehicleRequest) {
	v.Check(req.Make != nil || req.Model != nil || req.Color != nil || req.OwnerName != nil || req.OwnerPhone != nil,
		"body", "must contain at least one updatable field")
}
