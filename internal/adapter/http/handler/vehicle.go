package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/adapter/http/handler/dto"
	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	"github.com/ironslayer/parking-management-system/pkg/validator"
)

type VehicleService interface {
	Register(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	List(ctx context.Context, filters models.Filters) ([]models.Vehicle, models.Metadata, error)
	Update(ctx context.Context, id uuid.UUID, update models.VehicleUpdate) (*models.Vehicle, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type Vehicle struct {
	vehicles VehicleService
	l        logger.Logger
}

func NewVehicle(service VehicleService, l logger.Logger) *Vehicle {
	return &Vehicle{
		vehicles: service,
		l:        l,
	}
}

// Register godoc
// @Summary      Register a vehicle
// @Tags         Vehicles
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterVehicleRequest true "Vehicle"
// @Success      201 {object} map[string]any
// @Router       /vehicles [post]
func (h *Vehicle) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_vehicle")

	req := &dto.RegisterVehicleRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateNewVehicle(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	created, err := h.vehicles.Register(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"vehicle": created}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// List godoc
// @Summary      List vehicles
// @Tags         Vehicles
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        sort query string false "Sort key"
// @Success      200 {object} map[string]any
// @Router       /vehicles [get]
func (h *Vehicle) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_vehicles")

	filters := models.Filters{
		Page:         readInt(r, "page", 1),
		PageSize:     readInt(r, "page_size", 20),
		Sort:         readString(r, "sort", "plate"),
		SortSafelist: []string{"plate", "created_at", "-plate", "-created_at"},
	}

	v := validator.New()
	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	vehicles, metadata, err := h.vehicles.List(ctx, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list vehicles", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"vehicles": vehicles, "metadata": metadata}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get returns one vehicle by id, or by plate via /vehicles/plate/{plate}.
func (h *Vehicle) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_vehicle")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	vehicle, err := h.vehicles.Get(ctx, id)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"vehicle": vehicle}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Vehicle) GetByPlate(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_vehicle_by_plate")

	plate := r.PathValue("plate")
	if plate == "" {
		badRequestResponse(w, "plate must be provided")
		return
	}

	vehicle, err := h.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to find vehicle by plate", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}
	if vehicle == nil {
		errorResponse(w, http.StatusNotFound, "vehicle not found")
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"vehicle": vehicle}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Update applies a partial update; plate and category cannot change.
func (h *Vehicle) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_vehicle")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	req := &dto.UpdateVehicleRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateVehicleUpdate(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	updated, err := h.vehicles.Update(ctx, id, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"vehicle": updated}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Deactivate soft-deletes a vehicle.
func (h *Vehicle) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "deactivate_vehicle")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.vehicles.Deactivate(ctx, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to deactivate vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "vehicle deactivated"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Reactivate reverses a deactivation.
func (h *Vehicle) Reactivate(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reactivate_vehicle")

	id, err := readIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.vehicles.Reactivate(ctx, id); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to reactivate vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "vehicle reactivated"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
