package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "created", map[string]string{"id": "slot-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"id": "slot-1"}, resp.Data)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		write   func(http.ResponseWriter, string)
		status  int
		message string
	}{
		{"unauthorized", Unauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", Forbidden, http.StatusForbidden, "Forbidden"},
		{"not found", NotFound, http.StatusNotFound, "Resource not found"},
		{"bad request", BadRequest, http.StatusBadRequest, "Bad request"},
		{"conflict", Conflict, http.StatusConflict, "Conflict"},
		{"internal", InternalServerError, http.StatusInternalServerError, "Internal server error"},
		{"bad gateway", BadGateway, http.StatusBadGateway, "Practice API request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, "")
			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)

			rec = httptest.NewRecorder()
			tt.write(rec, "custom")
			assert.Equal(t, "custom", decode(t, rec).Message)
		})
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"escala": "must be at most 5"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Equal(t, map[string]interface{}{"escala": "must be at most 5"}, resp.Error)
}
