package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"psico-portal/internal/converter"
	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/domain/repository"
	repoimpl "psico-portal/internal/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTermsNotAccepted   = errors.New("terms of use must be accepted")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidDateFormat  = errors.New("invalid date format, use YYYY-MM-DD")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	GetCurrentProfile(ctx context.Context) (*dto.ProfileResponse, error)
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegistrationResponse, error)
	RegisterPsychologist(ctx context.Context, req *dto.RegisterPsychologistRequest) (*dto.RegistrationResponse, error)
}

type authUsecase struct {
	log      *logrus.Logger
	sessions repository.SessionRepository
}

func NewAuthUsecase(log *logrus.Logger, sessions repository.SessionRepository) AuthUsecase {
	return &authUsecase{
		log:      log,
		sessions: sessions,
	}
}

// Login exchanges credentials for the practice API's access token
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	token, err := u.sessions.Login(ctx, &entity.Credentials{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		if hasStatus(err, http.StatusUnauthorized, http.StatusBadRequest, http.StatusNotFound) {
			return nil, ErrInvalidCredentials
		}
		u.log.Warnf("Failed to login %s: %+v", req.Username, err)
		return nil, err
	}

	u.log.Infof("User %s logged in", req.Username)
	return &dto.TokenResponse{AccessToken: token.AccessToken}, nil
}

func (u *authUsecase) GetCurrentProfile(ctx context.Context) (*dto.ProfileResponse, error) {
	profile, err := u.sessions.CurrentProfile(ctx)
	if err != nil {
		u.log.Warnf("Failed to resolve current profile: %+v", err)
		return nil, err
	}
	return converter.ProfileToResponse(profile), nil
}

// RegisterPatient checks the confirmation fields locally before calling the API
func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.RegistrationResponse, error) {
	if err := checkSignUp(req.Password, req.ConfirmPassword, req.AcceptTerms); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, ErrInvalidDateFormat
	}

	reg, err := u.sessions.RegisterPatient(ctx, &entity.PatientRegistration{
		Name:        strings.TrimSpace(req.Name),
		CPF:         req.CPF,
		Phone:       req.Phone,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    req.Password,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return nil, u.registrationError("patient", req.Email, err)
	}

	u.log.Infof("Patient %s registered", reg.ID)
	return &dto.RegistrationResponse{ID: reg.ID}, nil
}

func (u *authUsecase) RegisterPsychologist(ctx context.Context, req *dto.RegisterPsychologistRequest) (*dto.RegistrationResponse, error) {
	if err := checkSignUp(req.Password, req.ConfirmPassword, req.AcceptTerms); err != nil {
		return nil, err
	}

	reg, err := u.sessions.RegisterPsychologist(ctx, &entity.PsychologistRegistration{
		Name:     strings.TrimSpace(req.Name),
		CPF:      req.CPF,
		Phone:    req.Phone,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		CRP:      req.CRP,
		Address:  req.Address,
		Number:   req.Number,
	})
	if err != nil {
		return nil, u.registrationError("psychologist", req.Email, err)
	}

	u.log.Infof("Psychologist %s registered", reg.ID)
	return &dto.RegistrationResponse{ID: reg.ID}, nil
}

func checkSignUp(password, confirm string, acceptTerms bool) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if !acceptTerms {
		return ErrTermsNotAccepted
	}
	return nil
}

func (u *authUsecase) registrationError(kind, email string, err error) error {
	if hasStatus(err, http.StatusConflict) {
		return ErrEmailAlreadyExists
	}
	u.log.Warnf("Failed to register %s %s: %+v", kind, email, err)
	return err
}

// hasStatus reports whether err is an upstream answer with one of codes
func hasStatus(err error, codes ...int) bool {
	var apiErr *repoimpl.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}
