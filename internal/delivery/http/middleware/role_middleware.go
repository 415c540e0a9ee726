package middleware

import (
	"context"
	"errors"
	"net/http"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/repository"
	"psico-portal/pkg/response"
)

// ProfileResolver returns the cached profile of a session
type ProfileResolver interface {
	Profile(ctx context.Context, sessionKey string) (*entity.Profile, error)
}

// RoleMiddleware gates routes on the role of the session's profile, which is
// looked up once per session through GET /login.
type RoleMiddleware struct {
	profiles ProfileResolver
}

func NewRoleMiddleware(profiles ProfileResolver) *RoleMiddleware {
	return &RoleMiddleware{profiles: profiles}
}

// RequireRole must run after AuthMiddleware.Authenticate
func (m *RoleMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionKey, ok := GetSessionKeyFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Session not found")
				return
			}

			profile, err := m.profiles.Profile(r.Context(), sessionKey)
			if err != nil {
				var apiErr *repository.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
					response.Unauthorized(w, "Invalid or expired token")
					return
				}
				response.BadGateway(w, "Failed to resolve profile")
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if profile.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			ctx := context.WithValue(r.Context(), ProfileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePsychologist is a convenience middleware for psychologist-only endpoints
func (m *RoleMiddleware) RequirePsychologist(next http.Handler) http.Handler {
	return m.RequireRole(entity.RolePsychologist)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func (m *RoleMiddleware) RequirePatient(next http.Handler) http.Handler {
	return m.RequireRole(entity.RolePatient)(next)
}

// GetProfileFromContext extracts the profile set by RequireRole
func GetProfileFromContext(ctx context.Context) (*entity.Profile, bool) {
	profile, ok := ctx.Value(ProfileKey).(*entity.Profile)
	return profile, ok && profile != nil
}
