package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Profile, *domain.TokenPair, error)
	Login(ctx context.Context, req LoginRequest) (*domain.Profile, *domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Profile, *domain.TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates an account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*domain.Profile, *domain.TokenPair, error) {
	return a.session(ctx, "register", &req)
}

// Login exchanges credentials for tokens.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (*domain.Profile, *domain.TokenPair, error) {
	return a.session(ctx, "login", &req)
}

// Refresh exchanges a refresh token for a new pair.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*domain.Profile, *domain.TokenPair, error) {
	return a.session(ctx, "refresh-token", &RefreshRequest{RefreshToken: refreshToken})
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid {
		if known, ok := knownErrors[resp.Error]; ok {
			return nil, known
		}
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
		Role:   resp.Role,
	}, nil
}

// GetProfile retrieves the profile of userID.
func (a *AuthAdapter) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	req := GetProfileRequest{UserID: userID}
	var resp ProfileResponse
	if err := callService(ctx, a.container, "get-profile", &req, &resp); err != nil {
		return nil, err
	}
	return profileOrError(resp)
}

// UpdateProfile changes the name and bio of userID.
func (a *AuthAdapter) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	req := UpdateProfileRequest{UserID: userID, Name: update.Name, Bio: update.Bio}
	var resp ProfileResponse
	if err := callService(ctx, a.container, "update-profile", &req, &resp); err != nil {
		return nil, err
	}
	return profileOrError(resp)
}

func (a *AuthAdapter) session(ctx context.Context, service string, req any) (*domain.Profile, *domain.TokenPair, error) {
	var resp SessionResponse
	if err := callService(ctx, a.container, service, req, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Error != nil {
		return nil, nil, resp.Error.Err()
	}
	if resp.User == nil || resp.Tokens == nil {
		return nil, nil, fmt.Errorf("%s returned an empty session", service)
	}
	return resp.User, resp.Tokens, nil
}

// callService sends req to the named request-reply service and decodes the
// reply into resp.
func callService[Resp any](ctx context.Context, container mono.ServiceContainer, service string, req any, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

func profileOrError(resp ProfileResponse) (*domain.Profile, error) {
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	if resp.Profile == nil {
		return nil, ErrUserNotFound
	}
	return resp.Profile, nil
}
