package repository

import (
	"context"

	"psico-portal/internal/domain/entity"
)

type MoodRepository interface {
	FindByPatient(ctx context.Context, patientID string) ([]entity.MoodEntry, error)
	Create(ctx context.Context, entry *entity.MoodEntry) (*entity.MoodEntry, error)
	Update(ctx context.Context, entry *entity.MoodEntry) error
	Delete(ctx context.Context, id string) error
}

type ActivityRepository interface {
	FindByPatient(ctx context.Context, patientID string) ([]entity.Activity, error)
	Create(ctx context.Context, activity *entity.Activity) error
	Update(ctx context.Context, activity *entity.Activity) error
	Delete(ctx context.Context, id string) error
}
