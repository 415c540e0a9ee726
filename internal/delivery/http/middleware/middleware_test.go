package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"psico-portal/internal/domain/entity"
	"psico-portal/internal/repository"
	"psico-portal/pkg/jwt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	profile *entity.Profile
	err     error
	keys    []string
}

func (s *stubResolver) Profile(_ context.Context, sessionKey string) (*entity.Profile, error) {
	s.keys = append(s.keys, sessionKey)
	return s.profile, s.err
}

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(jwt.NewInspector(0))
	token := signed(t, jwtlib.MapClaims{"sub": "pat-1", "id": "pat-1", "exp": time.Now().Add(time.Hour).Unix()})

	var gotToken, gotUser, gotKey string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken, _ = jwt.TokenFromContext(r.Context())
		gotUser, _ = GetUserIDFromContext(r.Context())
		gotKey, _ = GetSessionKeyFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"malformed", "Bearer abc.def", http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwtlib.MapClaims{"sub": "pat-1", "exp": time.Now().Add(-time.Minute).Unix()}), http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, token, gotToken)
	assert.Equal(t, "pat-1", gotUser)
	assert.Equal(t, jwt.SessionKey(token), gotKey)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, found := GetProfileFromContext(r.Context())
		if !found {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Profile", profile.ID)
		w.WriteHeader(http.StatusOK)
	})
	withSession := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), SessionKeyKey, "sub:psi-1"))
	}

	tests := []struct {
		name     string
		resolver *stubResolver
		status   int
	}{
		{"allowed", &stubResolver{profile: &entity.Profile{ID: "psi-1", Role: entity.RolePsychologist}}, http.StatusOK},
		{"wrong role", &stubResolver{profile: &entity.Profile{ID: "pat-1", Role: entity.RolePatient}}, http.StatusForbidden},
		{"token rejected upstream", &stubResolver{err: &repository.APIError{StatusCode: http.StatusUnauthorized}}, http.StatusUnauthorized},
		{"upstream down", &stubResolver{err: errors.New("connection refused")}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewRoleMiddleware(tt.resolver).RequirePsychologist(ok).ServeHTTP(rec, withSession())
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, []string{"sub:psi-1"}, tt.resolver.keys)
		})
	}

	rec := httptest.NewRecorder()
	NewRoleMiddleware(&stubResolver{}).RequirePatient(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS(t *testing.T) {
	handler := NewCORSMiddleware().Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
