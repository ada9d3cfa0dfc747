package api

import (
	userdomain "github.com/example/task-manager/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionResponse is returned after register, login and refresh.
type SessionResponse struct {
	User   *userdomain.Profile   `json:"user"`
	Tokens *userdomain.TokenPair `json:"tokens"`
}

// UpdateProfileRequest carries the editable profile fields. Any other field
// in the body, such as email, is ignored.
type UpdateProfileRequest struct {
	Name *string `json:"name" validate:"omitempty,max=100"`
	Bio  *string `json:"bio" validate:"omitempty,max=500"`
}

// CreateTaskRequest represents a task creation request. Fields are checked
// by the task controller, not here.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskRequest represents a partial task update. Omitted and null
// fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// CreateProductRequest represents an admin product creation request.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"omitempty,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,max=100"`
	Inventory   int     `json:"inventory" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=2048"`
}

// UpdateProductRequest represents a partial admin product update.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Slug        *string  `json:"slug" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Inventory   *int     `json:"inventory" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=2048"`
}

// MessageResponse carries a plain message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
