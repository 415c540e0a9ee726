package repository

import (
	"context"

	"psico-portal/internal/domain/entity"
)

type SessionRepository interface {
	Login(ctx context.Context, credentials *entity.Credentials) (*entity.AccessToken, error)
	CurrentProfile(ctx context.Context) (*entity.Profile, error)
	RegisterPatient(ctx context.Context, req *entity.PatientRegistration) (*entity.Registration, error)
	RegisterPsychologist(ctx context.Context, req *entity.PsychologistRegistration) (*entity.Registration, error)
}
