package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/passhash"
)

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		log:          log,
	}
}

// Login verifies the credentials and issues a token pair. Deactivated
// accounts cannot log in even with the right password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "login")

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if user == nil {
		return nil, wrap.Error(ctx, ErrInvalidCredentials)
	}

	if ok, err := passhash.VerifyPassword(password, user.PasswordHash); err != nil || !ok {
		return nil, wrap.Error(ctx, ErrInvalidCredentials)
	}

	if user.Status != types.UserActive {
		return nil, wrap.Error(ctx, ErrUserDeactivated)
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user)
	if err != nil {
		s.log.Error(ctx, "failed to generate tokens", err, "user_id", user.ID)
		return nil, wrap.Error(ctx, ErrTokenGenerateFail)
	}

	return tokens, nil
}

// Register creates a new account. Self-registered accounts always start at
// the lowest role; elevation is an admin operation.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "register")

	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, wrap.Error(ctx, err)
	}
	if existing != nil {
		return uuid.Nil, wrap.Error(ctx, ErrNotUniqueEmail)
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		return uuid.Nil, wrap.Error(ctx, fmt.Errorf("could not hash password: %w", err))
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		Role:         types.RoleUser,
		Status:       types.UserActive,
		PasswordHash: hash,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		s.log.Error(ctx, "failed to save user", err)
		return uuid.Nil, wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "user registered", "user_id", id)

	return id, nil
}

// Authenticate resolves an access token to its user. Used by the auth
// middleware on every guarded request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "authenticate")

	claims, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	if claims.TokenType != models.AccessToken {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if user == nil {
		return nil, wrap.Error(ctx, types.ErrUserNotFound)
	}
	if user.Status != types.UserActive {
		return nil, wrap.Error(ctx, ErrUserDeactivated)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
