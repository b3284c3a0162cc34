package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/caredesk/caredesk-api/internal/domain"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// Common error codes
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeLoginExists     = "LOGIN_EXISTS"
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeKeyNotFound     = "KEY_NOT_FOUND"
	CodeKeyExpired      = "KEY_EXPIRED"
	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeNotActivated    = "NOT_ACTIVATED"
	CodeInvalidToken    = "INVALID_TOKEN"
)

// DomainError maps the account lifecycle error taxonomy onto HTTP responses.
// Returns false when the error is not a known domain error, leaving the
// caller to pick a fallback status. Messages distinguish bad input from
// conflict from not-found without leaking storage details.
func DomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrInvalidPassword):
		WriteError(w, http.StatusBadRequest, "Password must be between 4 and 100 characters", CodeInvalidPassword)
	case errors.Is(err, domain.ErrLoginAlreadyUsed):
		WriteError(w, http.StatusConflict, "Login is already in use", CodeLoginExists)
	case errors.Is(err, domain.ErrEmailAlreadyUsed):
		WriteError(w, http.StatusConflict, "Email is already in use", CodeEmailExists)
	case errors.Is(err, domain.ErrActivationKeyNotFound):
		WriteError(w, http.StatusNotFound, "No account was found for this activation key", CodeKeyNotFound)
	case errors.Is(err, domain.ErrResetKeyNotFound):
		WriteError(w, http.StatusNotFound, "No account was found for this reset key", CodeKeyNotFound)
	case errors.Is(err, domain.ErrResetKeyExpired):
		WriteError(w, http.StatusBadRequest, "Reset key has expired", CodeKeyExpired)
	case errors.Is(err, domain.ErrEmailNotFound):
		WriteError(w, http.StatusNotFound, "Email address not registered", CodeEmailNotFound)
	case errors.Is(err, domain.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, "Account not found", CodeNotFound)
	case errors.Is(err, domain.ErrBadCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid login or password", CodeUnauthorized)
	case errors.Is(err, domain.ErrAccountNotActivated):
		WriteError(w, http.StatusUnauthorized, "Account is not activated", CodeNotActivated)
	default:
		return false
	}
	return true
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}
