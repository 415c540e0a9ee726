package handler

import (
	"net/http"

	"psico-portal/internal/delivery/http/middleware"
	"psico-portal/internal/domain/entity"
	"psico-portal/internal/repository"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/response"
)

// sessionWorkspace resolves the caller's workspace. On false a response has
// already been written.
func sessionWorkspace(w http.ResponseWriter, r *http.Request, registry *usecase.SessionRegistry) (*usecase.Workspace, bool) {
	sessionKey, ok := middleware.GetSessionKeyFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Session not found")
		return nil, false
	}
	ws, err := registry.Workspace(r.Context(), sessionKey)
	if err != nil {
		upstreamError(w, err, "Failed to resolve session")
		return nil, false
	}
	return ws, true
}

func currentProfile(w http.ResponseWriter, r *http.Request) (*entity.Profile, bool) {
	profile, ok := middleware.GetProfileFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Profile not found")
		return nil, false
	}
	return profile, true
}

// upstreamError answers 502 for practice API failures and 500 otherwise
func upstreamError(w http.ResponseWriter, err error, message string) {
	if repository.IsAPIError(err) {
		response.BadGateway(w, message)
		return
	}
	response.InternalServerError(w, message)
}
