package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/validator"
)

type PaymentService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, filters models.Filters) ([]models.Payment, models.Metadata, error)
}

type Payment struct {
	payments PaymentService
	l        logger.Logger
}

func NewPayment(service PaymentService, l logger.Logger) *Payment {
	return &Payment{
		payments: service,
		l:        l,
	}
}

// List godoc
// @Summary      List payments
// @Tags         Payments
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        sort query string false "Sort key"
// @Success      200 {object} map[string]any
// @Router       /payments [get]
func (h *Payment) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_payments")

	filters := models.Filters{
		Page:         readInt(r, "page", 1),
		PageSize:     readInt(r, "page_size", 20),
		Sort:         readString(r, "sort", "-processed_at"),
		SortSafelist: []string{"processed_at", "amount", "-processed_at", "-amount"},
	}

	v := validator.New()
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	payments, metadata, err := h.payments.List(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list payments", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"payments": payments, "metadata": metadata}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get returns one payment by id.
func (h *Payment) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_payment")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	payment, err := h.payments.Get(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get payment", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"payment": payment}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// GetBySession returns the payment captured for a session.
func (h *Payment) GetBySession(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_payment_by_session")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	payment, err := h.payments.GetBySession(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get payment by session", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"payment": payment}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
