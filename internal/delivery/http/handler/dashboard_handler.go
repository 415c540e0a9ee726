package handler

import (
	"net/http"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
)

// DashboardHandler serves the role dashboards and the psychologist's view of
// their patients
type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	monitorUsecase   usecase.PatientMonitorUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase, monitorUsecase usecase.PatientMonitorUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		monitorUsecase:   monitorUsecase,
	}
}

// GetDashboard picks the series for the session's role
// @Summary Dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	switch profile.Role {
	case entity.RolePatient:
		dashboard, err := h.dashboardUsecase.PatientDashboard(r.Context(), profile.ID)
		if err != nil {
			upstreamError(w, err, "Failed to get dashboard")
			return
		}
		response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
	case entity.RolePsychologist:
		dashboard, err := h.dashboardUsecase.PsychologistDashboard(r.Context(), profile.ID)
		if err != nil {
			upstreamError(w, err, "Failed to get dashboard")
			return
		}
		response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
	default:
		response.Forbidden(w, "You don't have permission to access this resource")
	}
}

func (h *DashboardHandler) GetPatientMoods(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	status, err := h.monitorUsecase.MoodStatus(r.Context(), profile.ID, r.URL.Query().Get("search"))
	if err != nil {
		upstreamError(w, err, "Failed to get patient moods")
		return
	}

	response.Success(w, http.StatusOK, "Patient moods retrieved successfully", status)
}

func (h *DashboardHandler) GetPatientActivities(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r)
	if !ok {
		return
	}

	feed, err := h.monitorUsecase.ActivityFeed(r.Context(), profile.ID, r.URL.Query().Get("search"))
	if err != nil {
		upstreamError(w, err, "Failed to get patient activities")
		return
	}

	response.Success(w, http.StatusOK, "Patient activities retrieved successfully", feed)
}
