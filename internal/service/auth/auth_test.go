package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
)

func newAuthService(t *testing.T) (*AuthService, *stubUserRepo) {
	t.Helper()

	users := newStubUserRepo()
	tokens := newTokenService(users, newStubRefreshRepo())
	return NewAuthService(users, tokens, logger.InitLogger("test", logger.LevelError)), users
}

func TestRegisterDefaultsToLowestRole(t *testing.T) {
	service, users := newAuthService(t)

	id, err := service.Register(context.Background(), &models.UserCreateRequest{
		Name:     "New User",
		Email:    "  New.User@Example.COM ",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := users.users[id]
	if stored.Role != types.RoleUser {
		t.Fatalf("role = %s, want USER", stored.Role)
	}
	if stored.Email != "new.user@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", stored.Email)
	}
	if stored.PasswordHash == "s3cret-pass" || stored.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	req := &models.UserCreateRequest{Name: "A", Email: "a@example.com", Password: "s3cret-pass"}
	if _, err := service.Register(ctx, req); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := service.Register(ctx, &models.UserCreateRequest{Name: "B", Email: "A@Example.com", Password: "other-pass"})
	if !errors.Is(err, ErrNotUniqueEmail) {
		t.Fatalf("err = %v, want ErrNotUniqueEmail", err)
	}
}

func TestLoginWithWrongPasswordFails(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, &models.UserCreateRequest{Name: "A", Email: "a@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := service.Login(ctx, "a@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := service.Login(ctx, "unknown@example.com", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginThenAuthenticateRoundTrip(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	id, err := service.Register(ctx, &models.UserCreateRequest{Name: "A", Email: "a@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	pair, err := service.Login(ctx, "a@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessExpiresAt.Before(time.Now()) {
		t.Fatal("access token must not be issued already expired")
	}

	user, err := service.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != id {
		t.Fatalf("authenticated user = %s, want %s", user.ID, id)
	}

	// Refresh tokens are not accepted where an access token is expected.
	if _, err := service.Authenticate(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh-as-access err = %v, want ErrInvalidToken", err)
	}
}

func TestLoginFailsForDeactivatedUser(t *testing.T) {
	service, users := newAuthService(t)
	ctx := context.Background()

	id, err := service.Register(ctx, &models.UserCreateRequest{Name: "A", Email: "a@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	users.users[id].Status = types.UserInactive

	if _, err := service.Login(ctx, "a@example.com", "s3cret-pass"); !errors.Is(err, ErrUserDeactivated) {
		t.Fatalf("err = %v, want ErrUserDeactivated", err)
	}
}
