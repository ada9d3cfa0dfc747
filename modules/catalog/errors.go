package catalog

import (
	"errors"
)

var (
	// ErrNotFound is returned when no product matches.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid product id")
	// ErrDuplicateSlug is returned when another product already uses the slug.
	ErrDuplicateSlug = errors.New("a product with this slug already exists")
)

// ValidationError reports an invalid product field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Error codes carried across the service boundary.
const (
	CodeValidation    = "validation"
	CodeNotFound      = "not_found"
	CodeInvalidID     = "invalid_id"
	CodeDuplicateSlug = "duplicate_slug"
	CodeInternal      = "internal"
)

// ServiceError is the wire form of a catalog error.
type ServiceError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

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
	case errors.Is(err, ErrInvalidID):
		return &ServiceError{Code: CodeInvalidID, Message: ErrInvalidID.Error()}
	case errors.Is(err, ErrDuplicateSlug):
		return &ServiceError{Code: CodeDuplicateSlug, Message: ErrDuplicateSlug.Error()}
	default:
		return &ServiceError{Code: CodeInternal, Message: err.Error()}
	}
}

// Err rebuilds the error described by e.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case CodeValidation:
		return &ValidationError{Field: e.Field, Message: e.Message}
	case CodeNotFound:
		return ErrNotFound
	case CodeInvalidID:
		return ErrInvalidID
	case CodeDuplicateSlug:
		return ErrDuplicateSlug
	default:
		return errors.New(e.Message)
	}
}
