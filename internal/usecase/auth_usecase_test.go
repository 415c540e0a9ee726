package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/repository"
	"psico-portal/internal/testutil/fakeapi"
	"psico-portal/pkg/jwt"
	"psico-portal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fakeAuth(t *testing.T) (AuthUsecase, *fakeapi.Server) {
	t.Helper()
	api := fakeapi.New(t)
	client := repository.NewAPIClient(api.URL, 2*time.Second, quietLogger(), metrics.NewNop())
	return NewAuthUsecase(quietLogger(), repository.NewSessionRepository(client)), api
}

func patientSignUp() *dto.RegisterPatientRequest {
	return &dto.RegisterPatientRequest{
		Name:            "Ana Souza",
		CPF:             "12345678901",
		Phone:           "11999990000",
		Email:           "Ana@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		DateOfBirth:     "1990-04-01",
		AcceptTerms:     true,
	}
}

func TestAuthUsecase_LoginAndProfile(t *testing.T) {
	uc, api := fakeAuth(t)
	token := api.AddUser("ana", "pw", entity.Profile{ID: "pat-1", Name: "Ana", Role: entity.RolePatient})

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{Username: " ana ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, token, resp.AccessToken)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	profile, err := uc.GetCurrentProfile(jwt.ContextWithToken(context.Background(), token))
	require.NoError(t, err)
	assert.Equal(t, &dto.ProfileResponse{ID: "pat-1", Name: "Ana", Role: entity.RolePatient}, profile)
}

func TestAuthUsecase_LoginUpstreamFailure(t *testing.T) {
	uc, api := fakeAuth(t)
	api.FailNext("POST /login", http.StatusInternalServerError)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Username: "ana", Password: "pw"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, repository.IsAPIError(err))
}

func TestAuthUsecase_RegisterPatient(t *testing.T) {
	t.Run("sends normalized payload", func(t *testing.T) {
		uc, api := fakeAuth(t)
		resp, err := uc.RegisterPatient(context.Background(), patientSignUp())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)

		body := api.LastBody("POST /pacientes")
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "1990-04-01", body["dataNascimento"])
		assert.NotContains(t, body, "confirmarSenha")
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc, _ := fakeAuth(t)
		_, err := uc.RegisterPatient(context.Background(), patientSignUp())
		require.NoError(t, err)
		_, err = uc.RegisterPatient(context.Background(), patientSignUp())
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	tests := []struct {
		name   string
		mutate func(*dto.RegisterPatientRequest)
		want   error
	}{
		{"password mismatch", func(r *dto.RegisterPatientRequest) { r.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"terms not accepted", func(r *dto.RegisterPatientRequest) { r.AcceptTerms = false }, ErrTermsNotAccepted},
		{"bad birth date", func(r *dto.RegisterPatientRequest) { r.DateOfBirth = "01/04/1990" }, ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(MockSessionRepository)
			uc := NewAuthUsecase(quietLogger(), sessions)
			req := patientSignUp()
			tt.mutate(req)

			_, err := uc.RegisterPatient(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			sessions.AssertNotCalled(t, "RegisterPatient", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthUsecase_RegisterPsychologist(t *testing.T) {
	sessions := new(MockSessionRepository)
	sessions.On("RegisterPsychologist", mock.Anything, mock.MatchedBy(func(r *entity.PsychologistRegistration) bool {
		return r.CRP == "06/123456" && r.Number == 42 && r.Email == "psi@example.com"
	})).Return(&entity.Registration{ID: "psi-9"}, nil).Once()
	uc := NewAuthUsecase(quietLogger(), sessions)

	req := &dto.RegisterPsychologistRequest{
		Name:            "Dra. Paula",
		Email:           "PSI@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		CRP:             "06/123456",
		Address:         "Rua A",
		Number:          42,
		AcceptTerms:     true,
	}
	resp, err := uc.RegisterPsychologist(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "psi-9", resp.ID)

	sessions.On("RegisterPsychologist", mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()
	_, err = uc.RegisterPsychologist(context.Background(), req)
	assert.Error(t, err)
	sessions.AssertExpectations(t)
}
