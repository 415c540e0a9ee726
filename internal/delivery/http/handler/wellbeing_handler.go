package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
	"psico-portal/pkg/validator"

	"github.com/gorilla/mux"
)

// WellbeingHandler serves the patient's mood and activity logs
type WellbeingHandler struct {
	moodUsecase     usecase.MoodUsecase
	activityUsecase usecase.ActivityUsecase
	validator       *validator.CustomValidator
}

func NewWellbeingHandler(moodUsecase usecase.MoodUsecase, activityUsecase usecase.ActivityUsecase, validator *validator.CustomValidator) *WellbeingHandler {
	return &WellbeingHandler{
		moodUsecase:     moodUsecase,
		activityUsecase: activityUsecase,
		validator:       validator,
	}
}

func (h *WellbeingHandler) wellbeingError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrMoodAlreadyRecorded):
		response.Conflict(w, "Mood already recorded today")
	case errors.Is(err, usecase.ErrMoodNotFound):
		response.NotFound(w, "Mood entry not found")
	case errors.Is(err, usecase.ErrActivityNotFound):
		response.NotFound(w, "Activity not found")
	case errors.Is(err, usecase.ErrInvalidScale):
		response.BadRequest(w, "Scale must be between 1 and 5")
	case errors.Is(err, usecase.ErrInvalidImpact):
		response.BadRequest(w, "Impact must be between 1 and 5")
	case errors.Is(err, converter.ErrInvalidDateTime):
		response.BadRequest(w, "Invalid date, use YYYY-MM-DDTHH:MM or RFC3339")
	default:
		upstreamError(w, err, message)
	}
}

func (h *WellbeingHandler) GetMoods(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	log, err := h.moodUsecase.GetLog(r.Context(), profile.ID)
	if err != nil {
		h.wellbeingError(w, err, "Failed to get mood entries")
		return
	}

	response.Success(w, http.StatusOK, "Mood entries retrieved successfully", log)
}

func (h *WellbeingHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMoodRequest
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

	log, err := h.moodUsecase.Record(r.Context(), profile.ID, &req)
	if err != nil {
		h.wellbeingError(w, err, "Failed to record mood")
		return
	}

	response.Success(w, http.StatusCreated, "Mood recorded successfully", log)
}

func (h *WellbeingHandler) UpdateMood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.UpdateMoodRequest
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

	log, err := h.moodUsecase.Update(r.Context(), profile.ID, id, &req)
	if err != nil {
		h.wellbeingError(w, err, "Failed to update mood")
		return
	}

	response.Success(w, http.StatusOK, "Mood updated successfully", log)
}

func (h *WellbeingHandler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	log, err := h.moodUsecase.Delete(r.Context(), profile.ID, id)
	if err != nil {
		h.wellbeingError(w, err, "Failed to delete mood")
		return
	}

	response.Success(w, http.StatusOK, "Mood deleted successfully", log)
}

func (h *WellbeingHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	log, err := h.activityUsecase.GetLog(r.Context(), profile.ID)
	if err != nil {
		h.wellbeingError(w, err, "Failed to get activities")
		return
	}

	response.Success(w, http.StatusOK, "Activities retrieved successfully", log)
}

func (h *WellbeingHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req dto.ActivityRequest
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

	log, err := h.activityUsecase.Create(r.Context(), profile.ID, &req)
	if err != nil {
		h.wellbeingError(w, err, "Failed to create activity")
		return
	}

	response.Success(w, http.StatusCreated, "Activity created successfully", log)
}

func (h *WellbeingHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.ActivityRequest
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

	log, err := h.activityUsecase.Update(r.Context(), profile.ID, id, &req)
	if err != nil {
		h.wellbeingError(w, err, "Failed to update activity")
		return
	}

	response.Success(w, http.StatusOK, "Activity updated successfully", log)
}

func (h *WellbeingHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	log, err := h.activityUsecase.Delete(r.Context(), profile.ID, id)
	if err != nil {
		h.wellbeingError(w, err, "Failed to delete activity")
		return
	}

	response.Success(w, http.StatusOK, "Activity deleted successfully", log)
}
