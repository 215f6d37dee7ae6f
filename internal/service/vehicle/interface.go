package vehicle

import (
	"context"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
)

// VehicleRepo is the persistence seam for the vehicle registry. Lookup misses
// return (nil, nil), not an error.
type VehicleRepo interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	List(ctx context.Context, filters models.Filters) ([]models.Vehicle, models.Metadata, error)
	Update(ctx context.Context, id uuid.UUID, update models.VehicleUpdate) (*models.Vehicle, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Count(ctx context.Context) (int, error)
}
