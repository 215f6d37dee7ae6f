package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/adapter/http/handler/dto"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/validator"
)

type AdminService interface {
	GetOverview(ctx context.Context) (*models.Overview, error)
}

type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filters models.Filters) ([]models.User, models.Metadata, error)
	ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role types.UserRole) (*models.User, error)
	Deactivate(ctx context.Context, actorID, targetID uuid.UUID) error
	Reactivate(ctx context.Context, targetID uuid.UUID) error
}

type Admin struct {
	admin AdminService
	users UserService
	l     logger.Logger
}

func NewAdmin(admin AdminService, users UserService, l logger.Logger) *Admin {
	return &Admin{
		admin: admin,
		users: users,
		l:     l,
	}
}

// GetOverview godoc
// @Summary      Dashboard overview snapshot
// @Tags         Admin
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /admin/overview [get]
func (h *Admin) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_overview")

	overview, err := h.admin.GetOverview(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get overview", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"overview": overview}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListUsers godoc
// @Summary      List accounts
// @Tags         Admin
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /admin/users [get]
func (h *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_users")

	filters := models.Filters{
		Page:         readInt(r, "page", 1),
		PageSize:     readInt(r, "page_size", 20),
		Sort:         readString(r, "sort", "created_at"),
		SortSafelist: []string{"created_at", "email", "name", "-created_at", "-email", "-name"},
	}

	v := validator.New()
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	users, metadata, err := h.users.List(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list users", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"users": users, "metadata": metadata}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ChangeUserRole godoc
// @Summary      Change an account's role
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body dto.ChangeRoleRequest true "New role"
// @Success      200 {object} map[string]any
// @Router       /admin/users/{id}/role [put]
func (h *Admin) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "change_user_role")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req := &dto.ChangeRoleRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateChangeRole(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	actor := models.UserFromContext(ctx)
	if actor == nil || actor.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	updated, err := h.users.ChangeRole(ctx, actor.ID, id, types.UserRole(req.Role))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to change user role", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"user": updated}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// DeactivateUser godoc
// @Summary      Deactivate an account
// @Tags         Admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} map[string]any
// @Router       /admin/users/{id}/deactivate [post]
func (h *Admin) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "deactivate_user")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	actor := models.UserFromContext(ctx)
	if actor == nil || actor.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := h.users.Deactivate(ctx, actor.ID, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to deactivate user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "user deactivated"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ReactivateUser godoc
// @Summary      Reactivate an account
// @Tags         Admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} map[string]any
// @Router       /admin/users/{id}/reactivate [post]
func (h *Admin) ReactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reactivate_user")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.users.Reactivate(ctx, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to reactivate user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "user reactivated"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
