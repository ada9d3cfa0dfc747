package auth

import (
	"errors"
	"time"

	domain "github.com/example/task-manager/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// DefaultSecretKey is used when no secret is configured. It is only fit for
// local development.
const DefaultSecretKey = "your-secret-key-change-in-production"

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	Issuer               string
}

// DefaultJWTConfig returns a default JWT configuration.
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            DefaultSecretKey,
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "task-manager",
	}
}

// JWTClaims represents the custom claims for JWT tokens.
type JWTClaims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 tokens.
type JWTManager struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTManager creates a new JWTManager with the given configuration.
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		config: config,
		now:    time.Now,
	}
}

// IssuePair signs a fresh access and refresh token for u.
func (m *JWTManager) IssuePair(u *domain.User) (*domain.TokenPair, error) {
	access, err := m.sign(u, tokenTypeAccess, m.config.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(u, tokenTypeRefresh, m.config.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.config.AccessTokenDuration.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (m *JWTManager) sign(u *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := JWTClaims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// parse verifies the signature, expiry, issuer and token type.
func (m *JWTManager) parse(tokenString, wantType string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	}, jwt.WithIssuer(m.config.Issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken validates an access token.
func (m *JWTManager) ParseAccessToken(tokenString string) (*JWTClaims, error) {
	return m.parse(tokenString, tokenTypeAccess)
}

// ParseRefreshToken validates a refresh token.
func (m *JWTManager) ParseRefreshToken(tokenString string) (*JWTClaims, error) {
	return m.parse(tokenString, tokenTypeRefresh)
}
