package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokenConfig = TokenConfig{
	AccessSecret:  "test-access-secret",
	RefreshSecret: "test-refresh-secret",
	AccessExpiry:  15 * time.Minute,
	RefreshExpiry: 30 * 24 * time.Hour,
}

func TestGenerateTokenPair(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "test@example.com", "customer", testTokenConfig)
	require.NoError(t, err)
	require.NotNil(t, tokens)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
	assert.True(t, tokens.AccessExpiresAt.Before(tokens.RefreshExpiresAt))
}

func TestGenerateTokenPair_UniquePerCall(t *testing.T) {
	first, err := GenerateTokenPair(1, "test@example.com", "customer", testTokenConfig)
	require.NoError(t, err)
	second, err := GenerateTokenPair(1, "test@example.com", "customer", testTokenConfig)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestValidateAccessToken(t *testing.T) {
	tokens, err := GenerateTokenPair(123, "test@example.com", "admin", testTokenConfig)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid access token", token: tokens.AccessToken, secret: testTokenConfig.AccessSecret},
		{name: "Refresh token rejected", token: tokens.RefreshToken, secret: testTokenConfig.RefreshSecret, wantErr: ErrInvalidToken},
		{name: "Wrong secret", token: tokens.AccessToken, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Malformed token", token: "invalid.token.format", secret: testTokenConfig.AccessSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testTokenConfig.AccessSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateAccessToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(123), claims.UserID)
			assert.Equal(t, "test@example.com", claims.Email)
			assert.Equal(t, "admin", claims.Role)
			assert.Equal(t, AccessTokenType, claims.Type)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	tokens, err := GenerateTokenPair(9, "test@example.com", "customer", testTokenConfig)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(tokens.RefreshToken, testTokenConfig.RefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, RefreshTokenType, claims.Type)

	_, err = ValidateRefreshToken(tokens.AccessToken, testTokenConfig.AccessSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	cfg := testTokenConfig
	cfg.AccessExpiry = -time.Minute

	tokens, err := GenerateTokenPair(1, "test@example.com", "customer", cfg)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(tokens.AccessToken, cfg.AccessSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
