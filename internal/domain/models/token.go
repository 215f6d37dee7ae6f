package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RefreshToken = "refresh_token"
	AccessToken  = "access_token"
)

func IsValidTokenType(typ string) bool {
	return typ == RefreshToken || typ == AccessToken
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type CustomClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenID   uuid.UUID `json:"jti"`
	TokenType string    `json:"typ"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	jwt.RegisteredClaims
}

// RefreshTokenRecord is the persisted half of a refresh token: only the hash
// is stored, the token itself never touches the database.
type RefreshTokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	LastUsed  *time.Time
}
