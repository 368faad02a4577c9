package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Submission errors
	ErrorTypeValidation ErrorType = "VALIDATION"

	// Storage errors
	ErrorTypeStorageRead  ErrorType = "STORAGE_READ"
	ErrorTypeStorageWrite ErrorType = "STORAGE_WRITE"
	ErrorTypeUnavailable  ErrorType = "UNAVAILABLE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMissingFieldsError creates a validation error listing the absent fields
func NewMissingFieldsError(fields []string) *AppError {
	return NewValidationError(fmt.Sprintf("missing required fields: %v", fields)).
		WithDetails(map[string]interface{}{"fields": fields})
}

// NewStorageReadError creates an error for a failed load from a store
func NewStorageReadError(store string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorageRead,
		Message:    fmt.Sprintf("reading from '%s' failed", store),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewStorageWriteError creates an error for a failed or rejected write
func NewStorageWriteError(store string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorageWrite,
		Message:    fmt.Sprintf("writing to '%s' failed", store),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    fmt.Sprintf("service '%s' is unavailable", service),
		Cause:      err,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsStorage checks if an error came from a storage backend
func IsStorage(err error) bool {
	return IsType(err, ErrorTypeStorageRead) ||
		IsType(err, ErrorTypeStorageWrite) ||
		IsType(err, ErrorTypeUnavailable)
}
