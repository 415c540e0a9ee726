package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"psico-portal/pkg/jwt"
	"psico-portal/pkg/response"
)

type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	SessionKeyKey contextKey = "session_key"
	ProfileKey    contextKey = "profile"
)

type AuthMiddleware struct {
	inspector *jwt.Inspector
}

func NewAuthMiddleware(inspector *jwt.Inspector) *AuthMiddleware {
	return &AuthMiddleware{
		inspector: inspector,
	}
}

// Authenticate reads the bearer token, rejects malformed or expired ones and
// stores it in the context so repositories forward it upstream.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		claims, err := m.inspector.Inspect(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(w, "Token has expired")
				return
			}
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := jwt.ContextWithToken(r.Context(), tokenString)
		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, SessionKeyKey, jwt.SessionKey(tokenString))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the token's user id claim from context. The
// claim is unverified; authorization goes through the session profile.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetSessionKeyFromContext extracts the session key from context
func GetSessionKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(SessionKeyKey).(string)
	return key, ok && key != ""
}
