package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	domain "github.com/example/task-manager/domain/user"
)

// AuthService handles registration, login, tokens and profiles.
type AuthService struct {
	store       UserStore
	hasher      Hasher
	jwt         *JWTManager
	adminEmails map[string]struct{}
}

// NewAuthService creates a new AuthService. Accounts registered with an
// email in adminEmails receive the admin role.
func NewAuthService(store UserStore, hasher Hasher, jwt *JWTManager, adminEmails []string) *AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &AuthService{
		store:       store,
		hasher:      hasher,
		jwt:         jwt,
		adminEmails: admins,
	}
}

// Register creates a new account and signs a token pair for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, *domain.TokenPair, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrNameRequired
	}

	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, ErrInvalidEmail
	}

	// bcrypt ignores bytes past 72
	if len(password) < 8 {
		return nil, nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, nil, ErrPasswordTooLong
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.jwt.IssuePair(u)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return u, tokens, nil
}

// Login verifies credentials and signs a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	u, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.jwt.IssuePair(u)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return u, tokens, nil
}

// RefreshTokens exchanges a refresh token for a new pair. The account must
// still exist; its current role is used.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.User, *domain.TokenPair, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	u, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	tokens, err := s.jwt.IssuePair(u)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return u, tokens, nil
}

// ValidateToken verifies an access token and returns its identity.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// GetProfile returns the public profile of userID.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.ToProfile()
	return &profile, nil
}

// UpdateProfile changes the name and bio of userID. Email and password are
// not reachable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	u, err := s.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	profile := u.ToProfile()
	return &profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
