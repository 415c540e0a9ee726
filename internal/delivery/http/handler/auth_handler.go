package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"psico-portal/internal/delivery/dto"
	"psico-portal/internal/delivery/http/middleware"
	"psico-portal/internal/repository"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
	"psico-portal/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	registry    *usecase.SessionRegistry
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, registry *usecase.SessionRegistry, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		registry:    registry,
		validator:   validator,
	}
}

// Login handles user login
// @Summary Login user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	token, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.Error(w, http.StatusUnauthorized, "Invalid username or password", nil)
		default:
			upstreamError(w, err, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", token)
}

// RegisterPatient handles patient sign-up
// @Summary Register a new patient
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterPatientRequest true "Register Patient Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register/patient [post]
func (h *AuthHandler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reg, err := h.authUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		h.registrationError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", reg)
}

// RegisterPsychologist handles psychologist sign-up
// @Summary Register a new psychologist
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterPsychologistRequest true "Register Psychologist Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register/psychologist [post]
func (h *AuthHandler) RegisterPsychologist(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPsychologistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reg, err := h.authUsecase.RegisterPsychologist(r.Context(), &req)
	if err != nil {
		h.registrationError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Psychologist registered successfully", reg)
}

func (h *AuthHandler) registrationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrPasswordMismatch):
		response.BadRequest(w, "Passwords do not match")
	case errors.Is(err, usecase.ErrTermsNotAccepted):
		response.BadRequest(w, "Terms of use must be accepted")
	case errors.Is(err, usecase.ErrInvalidDateFormat):
		response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, "Email already exists")
	default:
		upstreamError(w, err, "Failed to register")
	}
}

// GetCurrentUser returns the profile behind the bearer token
// @Summary Current profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.authUsecase.GetCurrentProfile(r.Context())
	if err != nil {
		var apiErr *repository.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}
		upstreamError(w, err, "Failed to get current user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", profile)
}

// Logout discards the session's workspace; the token itself is owned by the practice API
// @Summary Logout
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionKey, ok := middleware.GetSessionKeyFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	h.registry.Drop(sessionKey)
	response.Success(w, http.StatusOK, "Logout successful", nil)
}
