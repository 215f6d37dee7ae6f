package vehicle

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
)

type VehicleService struct {
	repo VehicleRepo
	log  logger.Logger
}

func NewVehicleService(repo VehicleRepo, log logger.Logger) *VehicleService {
	return &VehicleService{repo: repo, log: log}
}

// Register adds a vehicle to the registry. Plates are stored uppercase and
// must be unique across the registry, active or not.
func (s *VehicleService) Register(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "register_vehicle")

	vehicle.Plate = strings.ToUpper(strings.TrimSpace(vehicle.Plate))

	existing, err := s.repo.FindByPlate(ctx, vehicle.Plate)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not check plate uniqueness: %w", err))
	}
	if existing != nil {
		return nil, wrap.Error(ctx, types.ErrPlateAlreadyExists)
	}

	vehicle.IsActive = true

	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not create vehicle: %w", err))
	}

	s.log.Info(ctx, "vehicle registered", "plate", created.Plate, "category", created.Category)

	return created, nil
}

// Get returns the vehicle with the given id or ErrVehicleNotFound.
func (s *VehicleService) Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "get_vehicle")

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if vehicle == nil {
		return nil, wrap.Error(ctx, types.ErrVehicleNotFound)
	}
	return vehicle, nil
}

// FindByPlate returns the vehicle with the given plate, or (nil, nil) when it
// is not registered. Plate matching is case-insensitive.
func (s *VehicleService) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "find_vehicle_by_plate")
	return s.repo.FindByPlate(ctx, strings.ToUpper(strings.TrimSpace(plate)))
}

// List returns registry entries, paginated.
func (s *VehicleService) List(ctx context.Context, filters models.Filters) ([]models.Vehicle, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_vehicles")
	return s.repo.List(ctx, filters)
}

// Update applies the non-nil fields of update to the vehicle. Plate and
// category are immutable and have no update path.
func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, update models.VehicleUpdate) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "update_vehicle")

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if existing == nil {
		return nil, wrap.Error(ctx, types.ErrVehicleNotFound)
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update vehicle: %w", err))
	}
	return updated, nil
}

// Deactivate soft-deletes a vehicle. Deactivated vehicles stay visible in the
// registry and in session history but cannot start new sessions.
func (s *VehicleService) Deactivate(ctx context.Context, id uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "deactivate_vehicle")

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if existing == nil {
		return wrap.Error(ctx, types.ErrVehicleNotFound)
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not deactivate vehicle: %w", err))
	}

	s.log.Info(ctx, "vehicle deactivated", "plate", existing.Plate)

	return nil
}

// Reactivate reverses a deactivation.
func (s *VehicleService) Reactivate(ctx context.Context, id uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "reactivate_vehicle")

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if existing == nil {
		return wrap.Error(ctx, types.ErrVehicleNotFound)
	}

	if err := s.repo.SetActive(ctx, id, true); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not reactivate vehicle: %w", err))
	}
	return nil
}
