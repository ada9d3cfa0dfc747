package user

import (
	"time"
)

// Role grants access to parts of the HTTP surface.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account. Email is unique across users.
type User struct {
	ID           string    `gorm:"primaryKey;type:text"`
	Name         string    `gorm:"not null;type:text"`
	Email        string    `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string    `gorm:"not null;type:text"`
	Bio          string    `gorm:"type:text"`
	Role         Role      `gorm:"not null;type:text;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProfile strips credentials from u.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name *string `json:"name,omitempty"`
	Bio  *string `json:"bio,omitempty"`
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims is the verified identity carried by an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the claims grant admin access.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
