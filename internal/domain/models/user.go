package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
)

type UserCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         types.UserRole `json:"role"`
	Status       types.UserStatus `json:"status"`
	PasswordHash string         `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at,omitzero"`
}

// AnonymousUser represents an unauthenticated request.
func AnonymousUser() *User {
	return &User{}
}

func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == uuid.Nil
}

// --- context helpers ---

type userCtxKey struct{}

var userKey = userCtxKey{}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored in the context, or nil.
func UserFromContext(ctx context.Context) *User {
	if user, ok := ctx.Value(userKey).(*User); ok {
		return user
	}
	return nil
}
