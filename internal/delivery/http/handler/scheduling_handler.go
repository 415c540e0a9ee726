package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/service"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
	"psico-portal/pkg/validator"
)

// SchedulingHandler drives the patient's booking wizard
type SchedulingHandler struct {
	registry  *usecase.SessionRegistry
	validator *validator.CustomValidator
}

func NewSchedulingHandler(registry *usecase.SessionRegistry, validator *validator.CustomValidator) *SchedulingHandler {
	return &SchedulingHandler{
		registry:  registry,
		validator: validator,
	}
}

func schedulingResponse(state usecase.WizardState) *dto.SchedulingResponse {
	return &dto.SchedulingResponse{
		Step:           string(state.Step),
		PsychologistID: state.PsychologistID,
		PatientID:      state.PatientID,
		Slots:          converter.SlotsToResponses(state.Slots),
		Selected:       converter.SlotToResponse(state.Selected),
		RequestID:      state.RequestID,
		Error:          state.Error,
		Loading:        state.Loading,
		Submitting:     state.Submitting,
	}
}

func (h *SchedulingHandler) wizard(w http.ResponseWriter, r *http.Request) (*usecase.SchedulingWizard, bool) {
	ws, ok := sessionWorkspace(w, r, h.registry)
	if !ok {
		return nil, false
	}
	return ws.Scheduling, true
}

func (h *SchedulingHandler) wizardError(w http.ResponseWriter, err error, wizard *usecase.SchedulingWizard, message string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidTransition):
		response.Conflict(w, "Action not allowed in the current step")
	case errors.Is(err, usecase.ErrSlotNotListed):
		response.NotFound(w, "Slot is not available")
	case errors.Is(err, usecase.ErrSubmissionInFlight), errors.Is(err, service.ErrBookingInFlight):
		response.Conflict(w, "Booking already in progress")
	case errors.Is(err, usecase.ErrPatientUnresolved):
		response.BadRequest(w, "Patient could not be resolved")
	case errors.Is(err, usecase.ErrWizardNotOpen):
		response.Conflict(w, "Scheduling is not open")
	case errors.Is(err, usecase.ErrLoadSuperseded):
		response.Conflict(w, "Scheduling was reopened by a newer request")
	default:
		if state := wizard.State(); state.Error != "" {
			message = state.Error
		}
		upstreamError(w, err, message)
	}
}

// Open starts the wizard for a psychologist. patientId is optional and must
// match the caller when given.
func (h *SchedulingHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenSchedulingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}
	if req.PatientID != "" && req.PatientID != profile.ID {
		response.Forbidden(w, "Cannot schedule for another patient")
		return
	}

	wizard, ok := h.wizard(w, r)
	if !ok {
		return
	}

	if err := wizard.Open(r.Context(), req.PsychologistID, req.PatientID); err != nil {
		h.wizardError(w, err, wizard, "Failed to load available slots")
		return
	}

	response.Success(w, http.StatusOK, "Scheduling opened", schedulingResponse(wizard.State()))
}

func (h *SchedulingHandler) Pick(w http.ResponseWriter, r *http.Request) {
	var req dto.PickSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	wizard, ok := h.wizard(w, r)
	if !ok {
		return
	}

	if err := wizard.Pick(req.SlotID); err != nil {
		h.wizardError(w, err, wizard, "Failed to select slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot selected", schedulingResponse(wizard.State()))
}

func (h *SchedulingHandler) Back(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.wizard(w, r)
	if !ok {
		return
	}

	if err := wizard.Back(); err != nil {
		h.wizardError(w, err, wizard, "Failed to go back")
		return
	}

	response.Success(w, http.StatusOK, "Selection cleared", schedulingResponse(wizard.State()))
}

// Confirm books the selected slot. A failed booking keeps the wizard on the
// confirm step with its inline error.
func (h *SchedulingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmBookingRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	wizard, ok := h.wizard(w, r)
	if !ok {
		return
	}

	if err := wizard.Confirm(r.Context(), req.Notes); err != nil {
		h.wizardError(w, err, wizard, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", schedulingResponse(wizard.State()))
}

func (h *SchedulingHandler) Close(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.wizard(w, r)
	if !ok {
		return
	}

	wizard.Close()
	response.Success(w, http.StatusOK, "Scheduling closed", schedulingResponse(wizard.State()))
}

func (h *SchedulingHandler) GetState(w http.ResponseWriter, r *http.Request) {
	wizard, ok := h.wizard(w, r)
	if !ok {
		return
	}

	response.Success(w, http.StatusOK, "Scheduling state retrieved successfully", schedulingResponse(wizard.State()))
}
