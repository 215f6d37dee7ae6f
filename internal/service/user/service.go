package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfDemotion   = errors.New("admins cannot change their own role")
	ErrSelfDeactivate = errors.New("admins cannot deactivate themselves")
)

type UserService struct {
	repo   UserRepo
	tokens TokenRevoker
	log    logger.Logger
}

func NewUserService(repo UserRepo, tokens TokenRevoker, log logger.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, log: log}
}

// Get returns the account with the given id or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "get_user")

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if user == nil {
		return nil, wrap.Error(ctx, types.ErrUserNotFound)
	}
	return user, nil
}

// List returns accounts, paginated.
func (s *UserService) List(ctx context.Context, filters models.Filters) ([]models.User, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_users")
	return s.repo.List(ctx, filters)
}

// ChangeRole moves an account to a new role. The acting admin cannot change
// their own role; a demotion revokes the target's outstanding refresh tokens
// so the old role stops working at the next access token expiry.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role types.UserRole) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "change_user_role")

	if !types.IsValidUserRole(role.String()) {
		return nil, wrap.Error(ctx, ErrInvalidRole)
	}
	if actorID == targetID {
		return nil, wrap.Error(ctx, ErrSelfDemotion)
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if target == nil {
		return nil, wrap.Error(ctx, types.ErrUserNotFound)
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update role: %w", err))
	}

	if role.Level() < target.Role.Level() && s.tokens != nil {
		if err := s.tokens.RevokeAllForUser(ctx, targetID); err != nil {
			s.log.Error(ctx, "failed to revoke tokens after demotion", err, "user_id", targetID)
		}
	}

	s.log.Info(ctx, "user role changed", "user_id", targetID, "from", target.Role, "to", role)

	target.Role = role
	return target, nil
}

// Deactivate disables an account and revokes its refresh tokens. The acting
// admin cannot deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, actorID, targetID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "deactivate_user")

	if actorID == targetID {
		return wrap.Error(ctx, ErrSelfDeactivate)
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if target == nil {
		return wrap.Error(ctx, types.ErrUserNotFound)
	}

	if err := s.repo.UpdateStatus(ctx, targetID, types.UserInactive); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not deactivate user: %w", err))
	}

	if s.tokens != nil {
		if err := s.tokens.RevokeAllForUser(ctx, targetID); err != nil {
			s.log.Error(ctx, "failed to revoke tokens after deactivation", err, "user_id", targetID)
		}
	}

	s.log.Info(ctx, "user deactivated", "user_id", targetID)

	return nil
}

// Reactivate re-enables a previously deactivated account.
func (s *UserService) Reactivate(ctx context.Context, targetID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "reactivate_user")

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if target == nil {
		return wrap.Error(ctx, types.ErrUserNotFound)
	}

	if err := s.repo.UpdateStatus(ctx, targetID, types.UserActive); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not reactivate user: %w", err))
	}
	return nil
}
