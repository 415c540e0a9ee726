package handler

import (
	"errors"
	"net/http"

	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.PatientAppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.PatientAppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{appointmentUsecase: appointmentUsecase}
}

// GetMyAppointments returns the caller's appointments
// @Summary Patient appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param filter query string false "all, upcoming or past"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	filter := usecase.AppointmentFilter(r.URL.Query().Get("filter"))
	appointments, err := h.appointmentUsecase.List(r.Context(), profile.ID, filter)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAppointmentFilter) {
			response.BadRequest(w, "Invalid filter, use all, upcoming or past")
			return
		}
		upstreamError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
