package auth

import (
	"testing"
	"time"

	domain "github.com/example/task-manager/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "test-issuer",
	}
}

func testUser() *domain.User {
	return &domain.User{ID: "user-123", Email: "test@example.com", Role: domain.RoleAdmin}
}

func TestJWTManager_IssuePair(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	pair, err := manager.IssuePair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := manager.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.Equal(t, "test-issuer", claims.Issuer)

	refresh, err := manager.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeRefresh, refresh.TokenType)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	pair, err := manager.IssuePair(testUser())
	require.NoError(t, err)

	_, err = manager.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Expired(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	pair, err := manager.IssuePair(testUser())
	require.NoError(t, err)

	manager.now = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = manager.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = manager.ParseRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	pair, err := NewJWTManager(testJWTConfig()).IssuePair(testUser())
	require.NoError(t, err)

	otherSecret := testJWTConfig()
	otherSecret.SecretKey = "another-secret"
	otherIssuer := testJWTConfig()
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		manager *JWTManager
		token   string
	}{
		{name: "wrong secret", manager: NewJWTManager(otherSecret), token: pair.AccessToken},
		{name: "wrong issuer", manager: NewJWTManager(otherIssuer), token: pair.AccessToken},
		{name: "garbage", manager: NewJWTManager(testJWTConfig()), token: "not.a.jwt"},
		{name: "empty", manager: NewJWTManager(testJWTConfig()), token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.ParseAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
