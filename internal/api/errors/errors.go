// Package errors defines the structured error responses of the API.
//
// The taxonomy mirrors the failure classes of the pipeline: client input
// problems answer as 4xx, provider and media processing failures as 5xx,
// always with the originating diagnostic preserved in the message.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies an API error.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindBadRequest      ErrorKind = "bad_request"
	KindNotFound        ErrorKind = "not_found"
	KindProvider        ErrorKind = "provider"
	KindMediaProcessing ErrorKind = "media_processing"
	KindInternal        ErrorKind = "internal"
)

// APIError is the JSON error body returned to clients.
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to a status code.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindProvider:
		return http.StatusBadGateway
	case KindMediaProcessing:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with per-field details.
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Details: fields}
}

// NewBadRequestError creates a client input error.
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// NewNotFoundError creates a not found error for the named resource.
func NewNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewProviderError creates an error for a failed transcription backend.
func NewProviderError(message string) *APIError {
	return &APIError{Kind: KindProvider, Message: message}
}

// NewMediaError creates an error for a failed transcode or export.
func NewMediaError(message string) *APIError {
	return &APIError{Kind: KindMediaProcessing, Message: message}
}

// NewInternalError creates a generic internal error.
func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}
