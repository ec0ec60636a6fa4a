package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error classes for facade failures. Every operation returns
// an *APIError which unwraps to one of these, so callers that only
// care about the class can use errors.Is while the generic path still
// collapses everything to one "operation failed" notification.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// APIError is a failure reported by the server, keyed by HTTP status
// with the server's message attached.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}
