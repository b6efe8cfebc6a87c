package errors

import (
	"errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Constructors for the error taxonomy. Conflict is a state-machine
// precondition violation (vehicle not Available, booking not in an eligible
// status, rental not Active) and maps to 400 like the rest of the API.
func NewValidation(message string) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message)
}

func NewNotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func NewConflict(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

func NewTransaction(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message)
}

func NewUnauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

func NewForbidden(message string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message)
}

// StatusCode extracts the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
