// Package server provides the HTTP REST API for the resume screener.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrReportNotFound indicates the requested scan report does not exist
type ErrReportNotFound struct {
	ID uuid.UUID
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}

// ErrPersistenceDisabled indicates report storage was not configured
type ErrPersistenceDisabled struct{}

func (e *ErrPersistenceDisabled) Error() string {
	return "report persistence is not configured; set DATABASE_URL"
}

// ErrUnsupportedFile indicates an upload with a disallowed file type
type ErrUnsupportedFile struct {
	Filename string
}

func (e *ErrUnsupportedFile) Error() string {
	return fmt.Sprintf("unsupported file type: %s (only .pdf is accepted)", e.Filename)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrReportNotFound:
		return http.StatusNotFound
	case *ErrPersistenceDisabled:
		return http.StatusServiceUnavailable
	case *ErrUnsupportedFile:
		return http.StatusUnsupportedMediaType
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
