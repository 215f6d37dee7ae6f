package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/adapter/http/handler/dto"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/validator"
	"github.com/shopspring/decimal"
)

type SessionService interface {
	Start(ctx context.Context, plate, spotLabel string, operatorID uuid.UUID, notes *string) (*models.ParkingSession, error)
	Complete(ctx context.Context, sessionID uuid.UUID, exitTime time.Time, method types.PaymentMethod, operatorID uuid.UUID, notes *string) (*models.ParkingSession, error)
	Cancel(ctx context.Context, sessionID uuid.UUID, reason string, operatorID uuid.UUID) (*models.ParkingSession, error)
	EstimateCost(ctx context.Context, sessionID uuid.UUID, at time.Time) (decimal.Decimal, error)
	Get(ctx context.Context, sessionID uuid.UUID) (*models.ParkingSession, error)
	List(ctx context.Context, filters models.Filters) ([]models.ParkingSession, models.Metadata, error)
	ListActive(ctx context.Context) ([]models.ParkingSession, error)
}

type Session struct {
	sessions SessionService
	l        logger.Logger
}

func NewSession(service SessionService, l logger.Logger) *Session {
	return &Session{
		sessions: service,
		l:        l,
	}
}

// Start godoc
// @Summary      Start a parking session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request body dto.StartSessionRequest true "Session"
// @Success      201 {object} map[string]any
// @Router       /sessions [post]
func (h *Session) Start(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_session")

	req := &dto.StartSessionRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateStartSession(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	operator := models.UserFromContext(ctx)
	if operator == nil || operator.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	session, err := h.sessions.Start(ctx, req.Plate, req.SpotLabel, operator.ID, req.Notes)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start session", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"session": session}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Complete godoc
// @Summary      Complete a session and capture payment
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.CompleteSessionRequest true "Completion"
// @Success      200 {object} map[string]any
// @Router       /sessions/{id}/complete [post]
func (h *Session) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "complete_session")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req := &dto.CompleteSessionRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCompleteSession(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	operator := models.UserFromContext(ctx)
	if operator == nil || operator.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	exitTime := time.Now().UTC()
	if req.ExitTime != nil {
		exitTime = *req.ExitTime
	}

	session, err := h.sessions.Complete(ctx, id, exitTime, types.PaymentMethod(req.PaymentMethod), operator.ID, req.Notes)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to complete session", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"session": session}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Cancel godoc
// @Summary      Cancel a session without charging
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.CancelSessionRequest false "Reason"
// @Success      200 {object} map[string]any
// @Router       /sessions/{id}/cancel [post]
func (h *Session) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_session")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req := &dto.CancelSessionRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCancelSession(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	operator := models.UserFromContext(ctx)
	if operator == nil || operator.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	session, err := h.sessions.Cancel(ctx, id, req.Reason, operator.ID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel session", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"session": session}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// EstimateCost godoc
// @Summary      Estimate the current cost of a session
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} map[string]any
// @Router       /sessions/{id}/cost [get]
func (h *Session) EstimateCost(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "estimate_session_cost")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	cost, err := h.sessions.EstimateCost(ctx, id, time.Now().UTC())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to estimate session cost", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"estimated_cost": cost}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get returns a single session with its payment, if any.
func (h *Session) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_session")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get session", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"session": session}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      List sessions
// @Tags         Sessions
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        sort query string false "Sort key"
// @Success      200 {object} map[string]any
// @Router       /sessions [get]
func (h *Session) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_sessions")

	filters := models.Filters{
		Page:         readInt(r, "page", 1),
		PageSize:     readInt(r, "page_size", 20),
		Sort:         readString(r, "sort", "-entry_time"),
		SortSafelist: []string{"entry_time", "session_number", "-entry_time", "-session_number"},
	}

	v := validator.New()
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	sessions, metadata, err := h.sessions.List(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list sessions", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"sessions": sessions, "metadata": metadata}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ListActive godoc
// @Summary      List sessions currently in progress
// @Tags         Sessions
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /sessions/active [get]
func (h *Session) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_active_sessions")

	sessions, err := h.sessions.ListActive(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list active sessions", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"sessions": sessions}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
