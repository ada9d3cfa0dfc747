package auth

import (
	domain "github.com/example/task-manager/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse is returned by register, login and refresh-token.
type SessionResponse struct {
	User   *domain.Profile   `json:"user,omitempty"`
	Tokens *domain.TokenPair `json:"tokens,omitempty"`
	Error  *ServiceError     `json:"error,omitempty"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid  bool        `json:"valid"`
	UserID string      `json:"user_id,omitempty"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// GetProfileRequest represents a get-profile request.
type GetProfileRequest struct {
	UserID string `json:"user_id"`
}

// UpdateProfileRequest represents an update-profile request. It carries no
// email or password field.
type UpdateProfileRequest struct {
	UserID string  `json:"user_id"`
	Name   *string `json:"name,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}

// ProfileResponse carries a profile or an error.
type ProfileResponse struct {
	Profile *domain.Profile `json:"profile,omitempty"`
	Error   *ServiceError   `json:"error,omitempty"`
}
