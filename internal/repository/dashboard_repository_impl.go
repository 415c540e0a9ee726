package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
)

type dashboardRepository struct {
	client *APIClient
}

func NewDashboardRepository(client *APIClient) repository.DashboardRepository {
	return &dashboardRepository{client: client}
}

func (r *dashboardRepository) FindByPatient(ctx context.Context, patientID string) (*entity.PatientDashboard, error) {
	var dashboard entity.PatientDashboard
	path := "/dashboard/paciente/" + url.PathEscape(patientID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/dashboard/paciente/{id}", path, nil, &dashboard); err != nil {
		return nil, fmt.Errorf("get patient dashboard: %w", err)
	}
	return &dashboard, nil
}

func (r *dashboardRepository) FindByPsychologist(ctx context.Context, psychologistID string) (*entity.PsychologistDashboard, error) {
	var dashboard entity.PsychologistDashboard
	path := "/dashboard/psicologo/" + url.PathEscape(psychologistID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/dashboard/psicologo/{id}", path, nil, &dashboard); err != nil {
		return nil, fmt.Errorf("get psychologist dashboard: %w", err)
	}
	return &dashboard, nil
}

type patientMonitorRepository struct {
	client *APIClient
}

func NewPatientMonitorRepository(client *APIClient) repository.PatientMonitorRepository {
	return &patientMonitorRepository{client: client}
}

func (r *patientMonitorRepository) FindMoodStatus(ctx context.Context, psychologistID string) ([]entity.MonitoredPatient, error) {
	var patients []entity.MonitoredPatient
	path := "/humor/psicologo/" + url.PathEscape(psychologistID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/humor/psicologo/{id}", path, nil, &patients); err != nil {
		return nil, fmt.Errorf("list patient mood status: %w", err)
	}
	return patients, nil
}

func (r *patientMonitorRepository) FindActivities(ctx context.Context, psychologistID string) ([]entity.PatientActivities, error) {
	var patients []entity.PatientActivities
	path := "/atividades/psicologo/" + url.PathEscape(psychologistID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/atividades/psicologo/{id}", path, nil, &patients); err != nil {
		return nil, fmt.Errorf("list patient activities: %w", err)
	}
	return patients, nil
}
