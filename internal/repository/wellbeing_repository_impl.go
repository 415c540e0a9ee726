package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
)

type moodRepository struct {
	client *APIClient
}

func NewMoodRepository(client *APIClient) repository.MoodRepository {
	return &moodRepository{client: client}
}

func (r *moodRepository) FindByPatient(ctx context.Context, patientID string) ([]entity.MoodEntry, error) {
	var entries []entity.MoodEntry
	path := "/humor/paciente/" + url.PathEscape(patientID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/humor/paciente/{id}", path, nil, &entries); err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	return entries, nil
}

func (r *moodRepository) Create(ctx context.Context, entry *entity.MoodEntry) (*entity.MoodEntry, error) {
	var created entity.MoodEntry
	if err := r.client.doJSON(ctx, http.MethodPost, "/humor", "/humor", entry, &created); err != nil {
		return nil, fmt.Errorf("create mood entry: %w", err)
	}
	return &created, nil
}

func (r *moodRepository) Update(ctx context.Context, entry *entity.MoodEntry) error {
	path := "/humor/" + url.PathEscape(entry.ID)
	payload := moodPatch{Scale: entry.Scale, Notes: entry.Notes}
	if err := r.client.doJSON(ctx, http.MethodPatch, "/humor/{id}", path, payload, nil); err != nil {
		return fmt.Errorf("update mood entry %s: %w", entry.ID, err)
	}
	return nil
}

func (r *moodRepository) Delete(ctx context.Context, id string) error {
	path := "/humor/" + url.PathEscape(id)
	if err := r.client.doJSON(ctx, http.MethodDelete, "/humor/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("delete mood entry %s: %w", id, err)
	}
	return nil
}

// moodPatch is what an edit may change; the day of an entry is fixed
type moodPatch struct {
	Scale int    `json:"escala"`
	Notes string `json:"observacoes"`
}

type activityRepository struct {
	client *APIClient
}

func NewActivityRepository(client *APIClient) repository.ActivityRepository {
	return &activityRepository{client: client}
}

func (r *activityRepository) FindByPatient(ctx context.Context, patientID string) ([]entity.Activity, error) {
	var activities []entity.Activity
	path := "/atividades/paciente/" + url.PathEscape(patientID)
	if err := r.client.doJSON(ctx, http.MethodGet, "/atividades/paciente/{id}", path, nil, &activities); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	payload := activityPayload{
		Type:      activity.Type,
		Desc:      activity.Desc,
		Date:      activity.Date,
		Impact:    activity.Impact,
		PatientID: activity.PatientID,
	}
	if err := r.client.doJSON(ctx, http.MethodPost, "/atividades", "/atividades", payload, nil); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *activityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	path := "/atividades/" + url.PathEscape(activity.ID)
	payload := activityPayload{
		Type:      activity.Type,
		Desc:      activity.Desc,
		Date:      activity.Date,
		Impact:    activity.Impact,
		PatientID: activity.PatientID,
	}
	if err := r.client.doJSON(ctx, http.MethodPatch, "/atividades/{id}", path, payload, nil); err != nil {
		return fmt.Errorf("update activity %s: %w", activity.ID, err)
	}
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	path := "/atividades/" + url.PathEscape(id)
	if err := r.client.doJSON(ctx, http.MethodDelete, "/atividades/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	return nil
}

// activityPayload leaves out the server-managed timestamps
type activityPayload struct {
	Type      string    `json:"tipo"`
	Desc      string    `json:"descricao"`
	Date      time.Time `json:"data"`
	Impact    int       `json:"impacto"`
	PatientID string    `json:"pacienteId"`
}
