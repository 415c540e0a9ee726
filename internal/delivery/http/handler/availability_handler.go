package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
	"psico-portal/pkg/validator"

	"github.com/gorilla/mux"
)

// AvailabilityHandler serves the psychologist's availability screen backed
// by the session's AvailabilityManager.
type AvailabilityHandler struct {
	registry  *usecase.SessionRegistry
	validator *validator.CustomValidator
	loc       *time.Location
}

func NewAvailabilityHandler(registry *usecase.SessionRegistry, validator *validator.CustomValidator, loc *time.Location) *AvailabilityHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityHandler{
		registry:  registry,
		validator: validator,
		loc:       loc,
	}
}

// manager returns the loaded manager of the calling psychologist
func (h *AvailabilityHandler) manager(w http.ResponseWriter, r *http.Request) (*usecase.AvailabilityManager, bool) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return nil, false
	}
	ws, ok := sessionWorkspace(w, r, h.registry)
	if !ok {
		return nil, false
	}
	if err := ws.Availability.EnsureLoaded(r.Context(), profile.ID); err != nil {
		h.managerError(w, err, "Failed to load schedule")
		return nil, false
	}
	return ws.Availability, true
}

func (h *AvailabilityHandler) respond(w http.ResponseWriter, status int, message string, mgr *usecase.AvailabilityManager) {
	snap := mgr.Snapshot()
	response.Success(w, status, message, &dto.AvailabilityResponse{
		PsychologistID: snap.PsychologistID,
		View:           string(snap.View),
		Items:          converter.ScheduleItemsToResponses(snap.Items, snap.Now),
		Counts: dto.ViewCountsResponse{
			Available: snap.Counts.Available,
			Upcoming:  snap.Counts.Upcoming,
			Completed: snap.Counts.Completed,
		},
		Modal: dto.ModalResponse{Mode: string(snap.Modal.Mode), ItemID: snap.Modal.ItemID},
	})
}

func (h *AvailabilityHandler) managerError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrItemNotFound):
		response.NotFound(w, "Schedule item not found")
	case errors.Is(err, usecase.ErrNotAvailableSlot):
		response.BadRequest(w, "Item is not an available slot")
	case errors.Is(err, usecase.ErrNotBookedAppointment):
		response.BadRequest(w, "Item is not a booked appointment")
	case errors.Is(err, usecase.ErrEmptyPatch):
		response.BadRequest(w, "No fields to update")
	case errors.Is(err, usecase.ErrInvalidView):
		response.BadRequest(w, "Invalid view, use available, upcoming or completed")
	case errors.Is(err, usecase.ErrInvalidModalMode):
		response.BadRequest(w, "Invalid modal mode")
	case errors.Is(err, usecase.ErrModalClosed):
		response.Conflict(w, "Modal is closed")
	case errors.Is(err, usecase.ErrIncompleteSlot):
		response.BadRequest(w, "Date, description and price are required")
	case errors.Is(err, usecase.ErrLoadSuperseded):
		response.Conflict(w, "Schedule was reloaded by a newer request")
	case errors.Is(err, converter.ErrInvalidDateTime):
		response.BadRequest(w, "Invalid date, use YYYY-MM-DDTHH:MM or RFC3339")
	default:
		upstreamError(w, err, message)
	}
}

// GetAvailability returns the current view; refresh=true forces a reload
// @Summary Availability view
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param view query string false "available, upcoming or completed"
// @Param refresh query bool false "reload both lists"
// @Success 200 {object} response.Response
// @Router /availability [get]
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("refresh") == "true" {
		profile, _ := currentProfile(w, r)
		if err := mgr.LoadAll(r.Context(), profile.ID); err != nil {
			h.managerError(w, err, "Failed to load schedule")
			return
		}
	}

	if view := r.URL.Query().Get("view"); view != "" {
		if err := mgr.SetView(entity.AvailabilityView(view)); err != nil {
			h.managerError(w, err, "Failed to set view")
			return
		}
	}

	h.respond(w, http.StatusOK, "Availability retrieved successfully", mgr)
}

func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	date, err := converter.ParseDateTime(req.Date, h.loc)
	if err != nil {
		h.managerError(w, err, "")
		return
	}

	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	slot := &entity.NewSlot{
		Date:           date,
		Description:    strings.TrimSpace(req.Description),
		Notes:          req.Notes,
		Price:          *req.Price,
		PsychologistID: profile.ID,
	}
	if err := mgr.CreateSlot(r.Context(), slot); err != nil {
		h.managerError(w, err, "Failed to create slot")
		return
	}

	h.respond(w, http.StatusCreated, "Slot created successfully", mgr)
}

func (h *AvailabilityHandler) EditSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.EditSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	date, err := converter.ParseOptionalDateTime(req.Date, h.loc)
	if err != nil {
		h.managerError(w, err, "")
		return
	}

	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	patch := &entity.SlotPatch{
		Date:        date,
		Description: req.Description,
		Notes:       req.Notes,
		Price:       req.Price,
	}
	if err := mgr.EditSlot(r.Context(), id, patch); err != nil {
		h.managerError(w, err, "Failed to update slot")
		return
	}

	h.respond(w, http.StatusOK, "Slot updated successfully", mgr)
}

func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	if err := mgr.DeleteSlot(r.Context(), id); err != nil {
		h.managerError(w, err, "Failed to delete slot")
		return
	}

	h.respond(w, http.StatusOK, "Slot deleted successfully", mgr)
}

// EditAppointment only accepts date and notes; price and description stay
// as booked.
func (h *AvailabilityHandler) EditAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.EditAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	date, err := converter.ParseOptionalDateTime(req.Date, h.loc)
	if err != nil {
		h.managerError(w, err, "")
		return
	}

	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	if err := mgr.EditBookedAppointment(r.Context(), id, &entity.AppointmentPatch{Date: date, Notes: req.Notes}); err != nil {
		h.managerError(w, err, "Failed to update appointment")
		return
	}

	h.respond(w, http.StatusOK, "Appointment updated successfully", mgr)
}

func (h *AvailabilityHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	if err := mgr.DeleteBookedAppointment(r.Context(), id); err != nil {
		h.managerError(w, err, "Failed to delete appointment")
		return
	}

	h.respond(w, http.StatusOK, "Appointment deleted successfully", mgr)
}

func (h *AvailabilityHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenModalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	if err := mgr.OpenModal(entity.ModalMode(req.Mode), req.ItemID); err != nil {
		h.managerError(w, err, "Failed to open modal")
		return
	}

	h.respond(w, http.StatusOK, "Modal opened", mgr)
}

func (h *AvailabilityHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	mgr.CloseModal()
	h.respond(w, http.StatusOK, "Modal closed", mgr)
}

func (h *AvailabilityHandler) SubmitModal(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitModalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	date, err := converter.ParseOptionalDateTime(req.Date, h.loc)
	if err != nil {
		h.managerError(w, err, "")
		return
	}

	mgr, ok := h.manager(w, r)
	if !ok {
		return
	}

	form := usecase.ModalForm{
		Date:        date,
		Description: req.Description,
		Notes:       req.Notes,
		Price:       req.Price,
	}
	if err := mgr.SubmitModal(r.Context(), form); err != nil {
		h.managerError(w, err, "Failed to submit modal")
		return
	}

	h.respond(w, http.StatusOK, "Modal submitted successfully", mgr)
}
