package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
)

// UserRepo is the account store. Lookup misses return (nil, nil).
type UserRepo interface {
	Create(ctx context.Context, user *models.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RefreshTokenRepo persists refresh token records for rotation.
type RefreshTokenRepo interface {
	Save(ctx context.Context, record *models.RefreshTokenRecord) error
	Get(ctx context.Context, id uuid.UUID) (*models.RefreshTokenRecord, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// TokenProvider issues and validates JWT pairs.
type TokenProvider interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
