package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Response is the envelope of every portal answer
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Error:   errors,
	})
}

// fail writes an error envelope, falling back to the status text
func fail(w http.ResponseWriter, statusCode int, message, fallback string) {
	if message == "" {
		message = fallback
	}
	Error(w, statusCode, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	fail(w, http.StatusUnauthorized, message, "Unauthorized")
}

func Forbidden(w http.ResponseWriter, message string) {
	fail(w, http.StatusForbidden, message, "Forbidden")
}

func NotFound(w http.ResponseWriter, message string) {
	fail(w, http.StatusNotFound, message, "Resource not found")
}

func BadRequest(w http.ResponseWriter, message string) {
	fail(w, http.StatusBadRequest, message, "Bad request")
}

// Conflict answers actions the current workflow state does not allow
func Conflict(w http.ResponseWriter, message string) {
	fail(w, http.StatusConflict, message, "Conflict")
}

func InternalServerError(w http.ResponseWriter, message string) {
	fail(w, http.StatusInternalServerError, message, "Internal server error")
}

// BadGateway reports a failed call to the practice API
func BadGateway(w http.ResponseWriter, message string) {
	fail(w, http.StatusBadGateway, message, "Practice API request failed")
}
