package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	"github.com/ironslayer/parking-management-system/pkg/passhash"
)

type stubTxManager struct{}

func (stubTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *models.User) (uuid.UUID, error) {
	u.ID = uuid.New()
	copied := *u
	r.users[u.ID] = &copied
	return u.ID, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

type stubRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func newStubRefreshRepo() *stubRefreshRepo {
	return &stubRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
}

func (r *stubRefreshRepo) Save(_ context.Context, record *models.RefreshTokenRecord) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *stubRefreshRepo) Get(_ context.Context, id uuid.UUID) (*models.RefreshTokenRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *stubRefreshRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.records[id].Revoked = true
	return nil
}

func (r *stubRefreshRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	for _, record := range r.records {
		if record.UserID == userID {
			record.Revoked = true
		}
	}
	return nil
}

func newTokenService(users *stubUserRepo, refresh *stubRefreshRepo) *TokenService {
	return NewTokenService(
		"test-secret",
		users,
		refresh,
		stubTxManager{},
		24*time.Hour,
		15*time.Minute,
		logger.InitLogger("test", logger.LevelError),
	)
}

func activeUser(t *testing.T, users *stubUserRepo) *models.User {
	t.Helper()

	hash, err := passhash.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		Name:         "Operator One",
		Email:        "op@example.com",
		Role:         types.RoleOperator,
		Status:       types.UserActive,
		PasswordHash: hash,
	}
	if _, err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return user
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	users := newStubUserRepo()
	service := newTokenService(users, newStubRefreshRepo())
	user := activeUser(t, users)
	ctx := context.Background()

	pair, err := service.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	claims, err := service.Validate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.TokenType != models.AccessToken {
		t.Fatalf("typ = %s, want access token", claims.TokenType)
	}
	if claims.UserID != user.ID {
		t.Fatalf("user_id = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Role != types.RoleOperator.String() {
		t.Fatalf("role = %s, want OPERATOR", claims.Role)
	}
}

func TestValidateRejectsGarbageAndForeignSignature(t *testing.T) {
	users := newStubUserRepo()
	service := newTokenService(users, newStubRefreshRepo())
	user := activeUser(t, users)
	ctx := context.Background()

	if _, err := service.Validate(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token err = %v, want ErrInvalidToken", err)
	}

	other := newTokenService(users, newStubRefreshRepo())
	other.secret = "different-secret"
	pair, err := other.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}
	if _, err := service.Validate(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	users := newStubUserRepo()
	refresh := newStubRefreshRepo()
	service := newTokenService(users, refresh)
	user := activeUser(t, users)
	ctx := context.Background()

	pair, err := service.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	rotated, err := service.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.AccessToken == "" || rotated.RefreshToken == "" {
		t.Fatal("rotation must produce a full pair")
	}

	// Replaying the consumed refresh token must fail.
	if _, err := service.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatal("replayed refresh token must be rejected")
	}

	// The new refresh token keeps working.
	if _, err := service.Refresh(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("rotated token refresh: %v", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := newStubUserRepo()
	service := newTokenService(users, newStubRefreshRepo())
	user := activeUser(t, users)
	ctx := context.Background()

	pair, err := service.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	if _, err := service.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token used as refresh err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshFailsForDeactivatedUser(t *testing.T) {
	users := newStubUserRepo()
	service := newTokenService(users, newStubRefreshRepo())
	user := activeUser(t, users)
	ctx := context.Background()

	pair, err := service.GenerateTokens(ctx, user)
	if err != nil {
		t.Fatalf("GenerateTokens: %v", err)
	}

	users.users[user.ID].Status = types.UserInactive

	if _, err := service.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUserDeactivated) {
		t.Fatalf("err = %v, want ErrUserDeactivated", err)
	}
}
