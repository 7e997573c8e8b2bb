// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

package domain

import "errors"

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation   ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeUnauthorized                  // Token or signature verification errors (401 Unauthorized)
	ErrorTypeNotFound                      // Resource not found errors (404 Not Found)
	ErrorTypeConflict                      // State machine precondition violations (409 Conflict)
	ErrorTypeInternal                      // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                   // Conferencing provider unavailable (503 Service Unavailable)
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewUnauthorizedError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnauthorized, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

// Sentinel errors used by the storage layer.
var (
	ErrRevisionMismatch   = NewConflictError("revision mismatch")
	ErrServiceUnavailable = NewUnavailableError("service unavailable")
	ErrUnmarshal          = NewInternalError("unmarshal error")
	ErrInternal           = NewInternalError("internal error")

	ErrBookingNotFound          = NewNotFoundError("booking not found")
	ErrMeetingNotFound          = NewNotFoundError("meeting not found")
	ErrWaitingRoomEntryNotFound = NewNotFoundError("waiting room entry not found")
)
