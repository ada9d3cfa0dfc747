package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no task matches both the id and the owner.
	// A task owned by someone else is reported the same way.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidIdentifier is returned when a task id is malformed for the
	// active store.
	ErrInvalidIdentifier = errors.New("invalid task id")
)

// ValidationError reports a caller-supplied field that violates a constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps any other failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("task storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// classify guarantees err is one of the four task error kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	var serr *StorageError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidIdentifier):
		return err
	case errors.As(err, &verr), errors.As(err, &serr):
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Error codes carried across the service boundary.
const (
	CodeValidation        = "validation"
	CodeNotFound          = "not_found"
	CodeInvalidIdentifier = "invalid_identifier"
	CodeStorage           = "storage"
)

// ServiceError is the wire form of a task error.
type ServiceError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// toServiceError encodes err for a service response.
func toServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return &ServiceError{Code: CodeValidation, Field: verr.Field, Message: verr.Message}
	case errors.Is(err, ErrNotFound):
		return &ServiceError{Code: CodeNotFound, Message: ErrNotFound.Error()}
	case errors.Is(err, ErrInvalidIdentifier):
		return &ServiceError{Code: CodeInvalidIdentifier, Message: ErrInvalidIdentifier.Error()}
	default:
		return &ServiceError{Code: CodeStorage, Message: err.Error()}
	}
}

// Err rebuilds the task error described by e.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case CodeValidation:
		return &ValidationError{Field: e.Field, Message: e.Message}
	case CodeNotFound:
		return ErrNotFound
	case CodeInvalidIdentifier:
		return ErrInvalidIdentifier
	default:
		return &StorageError{Op: "remote", Err: errors.New(e.Message)}
	}
}
