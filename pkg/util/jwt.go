package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type TokenType string

const (
	AccessTokenType  TokenType = "access"
	RefreshTokenType TokenType = "refresh"
)

type Claims struct {
	UserID uint      `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Type   TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// TokenConfig holds the signing secrets and lifetimes. Access and refresh
// tokens are signed with different secrets so one cannot stand in for the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// GenerateTokenPair issues an access and a refresh token for the user.
// Each token carries a random jti so two pairs issued in the same second differ.
func GenerateTokenPair(userID uint, email, role string, cfg TokenConfig) (*TokenPair, error) {
	now := time.Now()

	access, accessExp, err := signToken(userID, email, role, AccessTokenType, cfg.AccessSecret, now, cfg.AccessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := signToken(userID, email, role, RefreshTokenType, cfg.RefreshSecret, now, cfg.RefreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func signToken(userID uint, email, role string, typ TokenType, secret string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies signature, expiry and that the token is an access token
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	return validateToken(tokenString, secret, AccessTokenType)
}

// ValidateRefreshToken verifies signature, expiry and that the token is a refresh token
func ValidateRefreshToken(tokenString, secret string) (*Claims, error) {
	return validateToken(tokenString, secret, RefreshTokenType)
}

func validateToken(tokenString, secret string, want TokenType) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != want {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
