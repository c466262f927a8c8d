// Package apperrors maps service failures to the HTTP status and message a
// client is allowed to see.
package apperrors

import (
	"errors"
	"net/http"
)

// Exception is an error with a client-safe message and an HTTP status code.
// Err carries the underlying cause for server-side logs only.
type Exception struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// Is matches any Exception with the same status code, so a custom
// InvalidInput message still satisfies errors.Is(err, ErrInvalidInput).
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	return ok && t.StatusCode == e.StatusCode
}

var (
	ErrInvalidInput = &Exception{Message: "invalid input", StatusCode: http.StatusBadRequest}
	ErrUnauthorized = &Exception{Message: "unauthorized", StatusCode: http.StatusUnauthorized}
	ErrNotFound     = &Exception{Message: "task not found or unauthorized", StatusCode: http.StatusNotFound}
	ErrConflict     = &Exception{Message: "Email exists", StatusCode: http.StatusConflict}
	ErrRateLimited  = &Exception{Message: "rate limit exceeded", StatusCode: http.StatusTooManyRequests}
	ErrInternal     = &Exception{Message: "internal server error", StatusCode: http.StatusInternalServerError}
)

// InvalidInput returns a 400 error with the given message
func InvalidInput(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusBadRequest}
}

// Unauthorized returns a 401 error with the given message
func Unauthorized(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusUnauthorized}
}

// Internal hides err behind the generic 500 message
func Internal(err error) *Exception {
	return &Exception{Message: ErrInternal.Message, StatusCode: http.StatusInternalServerError, Err: err}
}

// StatusCode returns the HTTP status for err, 500 for anything unknown
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the client-visible message for err
func Message(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}
