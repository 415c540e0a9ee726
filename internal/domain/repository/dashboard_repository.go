package repository

import (
	"context"

	"psico-portal/internal/domain/entity"
)

type DashboardRepository interface {
	FindByPatient(ctx context.Context, patientID string) (*entity.PatientDashboard, error)
	FindByPsychologist(ctx context.Context, psychologistID string) (*entity.PsychologistDashboard, error)
}

// PatientMonitorRepository lists a psychologist's patients with their
// wellbeing records
type PatientMonitorRepository interface {
	FindMoodStatus(ctx context.Context, psychologistID string) ([]entity.MonitoredPatient, error)
	FindActivities(ctx context.Context, psychologistID string) ([]entity.PatientActivities, error)
}
