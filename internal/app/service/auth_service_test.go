package service

import (
	"context"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	s := setupServices(t)

	result, err := s.auth.Register(RegisterInput{Username: "jane", Email: "  Jane@Example.COM ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", result.User.Email)
	assert.Equal(t, model.RoleCustomer, result.User.Role)
	assert.NotEqual(t, "secret1", result.User.PasswordHash)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	var stored int64
	require.NoError(t, s.db.Model(&model.RefreshToken{}).Where("user_id = ?", result.User.ID).Count(&stored).Error)
	assert.Equal(t, int64(1), stored)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	s := setupServices(t)
	_, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing field", RegisterInput{Username: "bob", Email: "bob@example.com"}, ErrMissingCredentials},
		{"short username", RegisterInput{Username: "bo", Email: "bob@example.com", Password: "secret1"}, ErrUsernameTooShort},
		{"short password", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "12345"}, ErrPasswordTooShort},
		{"bad email", RegisterInput{Username: "bob", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"email taken", RegisterInput{Username: "bob", Email: "JANE@example.com", Password: "secret1"}, ErrUserAlreadyExists},
		{"username taken", RegisterInput{Username: "jane", Email: "other@example.com", Password: "secret1"}, ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.Register(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_LoginSameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	s := setupServices(t)
	_, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := s.auth.Login("jane@example.com", "wrong-password")
	_, unknownEmail := s.auth.Login("nobody@example.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "Invalid credentials.", wrongPassword.Error())

	_, err = s.auth.Login("", "")
	assert.ErrorIs(t, err, ErrLoginFieldsRequired)
}

func TestAuthService_LoginNormalizesEmail(t *testing.T) {
	s := setupServices(t)
	_, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := s.auth.Login("  JANE@example.com ", "secret1")
	require.NoError(t, err)

	claims, err := util.ValidateAccessToken(result.Tokens.AccessToken, testTokenConfig.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	s := setupServices(t)
	reg, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	original := reg.Tokens.RefreshToken
	rotated, err := s.auth.Refresh(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, rotated.RefreshToken)

	_, err = s.auth.Refresh(original)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	again, err := s.auth.Refresh(rotated.RefreshToken)
	require.NoError(t, err)

	_, err = s.auth.Refresh(rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = s.auth.Refresh(again.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_RefreshRejects(t *testing.T) {
	s := setupServices(t)
	reg, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.auth.Refresh("")
	assert.ErrorIs(t, err, ErrRefreshTokenRequired)

	_, err = s.auth.Refresh("garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = s.auth.Refresh(reg.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_MultipleSessions(t *testing.T) {
	s := setupServices(t)
	reg, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	login, err := s.auth.Login("jane@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.auth.Refresh(reg.Tokens.RefreshToken)
	assert.NoError(t, err)
	_, err = s.auth.Refresh(login.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	s := setupServices(t)
	reg, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := util.ValidateAccessToken(reg.Tokens.AccessToken, testTokenConfig.AccessSecret)
	require.NoError(t, err)

	require.NoError(t, s.auth.Logout(context.Background(), reg.User.ID, reg.Tokens.RefreshToken, claims))

	_, err = s.auth.Refresh(reg.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.Equal(t, []string{claims.ID}, s.revoker.jtis)
	assert.Greater(t, s.revoker.ttls[0].Seconds(), 0.0)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	s := setupServices(t)
	reg, err := s.auth.Register(RegisterInput{Username: "jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = s.auth.Register(RegisterInput{Username: "john", Email: "john@example.com", Password: "secret1"})
	require.NoError(t, err)

	taken := "john"
	_, err = s.auth.UpdateProfile(reg.User.ID, UpdateProfileInput{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	short := "123"
	_, err = s.auth.UpdateProfile(reg.User.ID, UpdateProfileInput{Password: &short})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	name, password := "janet", "new-secret"
	user, err := s.auth.UpdateProfile(reg.User.ID, UpdateProfileInput{Username: &name, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "janet", user.Username)

	_, err = s.auth.Login("jane@example.com", "new-secret")
	assert.NoError(t, err)
}
