package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
)

// UserRepo is the account store used for administration. Lookup misses
// return (nil, nil).
type UserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filters models.Filters) ([]models.User, models.Metadata, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role types.UserRole) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status types.UserStatus) error
}

// TokenRevoker invalidates outstanding refresh tokens when an account is
// deactivated or demoted.
type TokenRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}
