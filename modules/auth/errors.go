package auth

import (
	"errors"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrNameRequired is returned when registration omits the name.
	ErrNameRequired = errors.New("name is required")
	// ErrWeakPassword is returned when password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("user with this email already exists")
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// knownErrors maps wire codes to the sentinel errors above.
var knownErrors = map[string]error{
	"invalid_credentials": ErrInvalidCredentials,
	"invalid_email":       ErrInvalidEmail,
	"name_required":       ErrNameRequired,
	"weak_password":       ErrWeakPassword,
	"password_too_long":   ErrPasswordTooLong,
	"user_not_found":      ErrUserNotFound,
	"email_exists":        ErrEmailExists,
	"invalid_token":       ErrInvalidToken,
	"expired_token":       ErrExpiredToken,
}

// ServiceError is the wire form of an auth error.
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toServiceError encodes err for a service response. Errors without a code
// become "internal".
func toServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	for code, known := range knownErrors {
		if errors.Is(err, known) {
			return &ServiceError{Code: code, Message: known.Error()}
		}
	}
	return &ServiceError{Code: "internal", Message: err.Error()}
}

// Err rebuilds the error described by e.
func (e *ServiceError) Err() error {
	if e == nil {
		return nil
	}
	if known, ok := knownErrors[e.Code]; ok {
		return known
	}
	return errors.New(e.Message)
}
