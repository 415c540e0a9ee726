package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
)

var ErrMissingAccessToken = errors.New("login response carried no access token")

type sessionRepository struct {
	client *APIClient
}

func NewSessionRepository(client *APIClient) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Login(ctx context.Context, credentials *entity.Credentials) (*entity.AccessToken, error) {
	var token entity.AccessToken
	if err := r.client.doJSON(ctx, http.MethodPost, "/login", "/login", credentials, &token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}
	return &token, nil
}

// CurrentProfile resolves the identity behind the bearer token in ctx
func (r *sessionRepository) CurrentProfile(ctx context.Context) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.client.doJSON(ctx, http.MethodGet, "/login", "/login", nil, &profile); err != nil {
		return nil, fmt.Errorf("current profile: %w", err)
	}
	return &profile, nil
}

func (r *sessionRepository) RegisterPatient(ctx context.Context, req *entity.PatientRegistration) (*entity.Registration, error) {
	var registration entity.Registration
	if err := r.client.doJSON(ctx, http.MethodPost, "/pacientes", "/pacientes", req, &registration); err != nil {
		return nil, fmt.Errorf("register patient: %w", err)
	}
	return &registration, nil
}

func (r *sessionRepository) RegisterPsychologist(ctx context.Context, req *entity.PsychologistRegistration) (*entity.Registration, error) {
	var registration entity.Registration
	if err := r.client.doJSON(ctx, http.MethodPost, "/psicologos", "/psicologos", req, &registration); err != nil {
		return nil, fmt.Errorf("register psychologist: %w", err)
	}
	return &registration, nil
}
