package controller

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRoutes(env *testEnv) {
	env.router.POST("/auth/register", env.auth.Register)
	env.router.POST("/auth/login", env.auth.Login)
	env.router.POST("/auth/refresh-token", env.auth.RefreshToken)
}

func TestAuthController_Register(t *testing.T) {
	env := setupControllerTest(t)
	setupAuthRoutes(env)

	w := doJSON(t, env.router, http.MethodPost, "/auth/register", RegisterRequest{
		Username: "jane",
		Email:    "Jane@Example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, env.router, http.MethodPost, "/auth/register", RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["error"])

	w = doJSON(t, env.router, http.MethodPost, "/auth/register", RegisterRequest{Email: "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Provide all credentials", decode(t, w)["error"])
}

func TestAuthController_Login(t *testing.T) {
	env := setupControllerTest(t)
	setupAuthRoutes(env)

	w := doJSON(t, env.router, http.MethodPost, "/auth/register", RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, env.router, http.MethodPost, "/auth/login", LoginRequest{Email: " JANE@example.com ", Password: "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Login successful.", body["message"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AccessTokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	raw, err := url.QueryUnescape(cookies[0].Value)
	require.NoError(t, err)
	token, err := util.NewCookieCodec(testCookie.Secret, testCookie.MaxAge).Decode(middleware.AccessTokenCookie, raw)
	require.NoError(t, err)
	assert.Equal(t, body["accessToken"], token)

	wrongPassword := doJSON(t, env.router, http.MethodPost, "/auth/login", LoginRequest{Email: "jane@example.com", Password: "nope123"})
	unknownEmail := doJSON(t, env.router, http.MethodPost, "/auth/login", LoginRequest{Email: "who@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Equal(t, "Invalid credentials.", decode(t, wrongPassword)["error"])
}

func TestAuthController_RefreshToken(t *testing.T) {
	env := setupControllerTest(t)
	setupAuthRoutes(env)

	w := doJSON(t, env.router, http.MethodPost, "/auth/register", RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)
	original := decode(t, w)["refreshToken"].(string)

	w = doJSON(t, env.router, http.MethodPost, "/auth/refresh-token", RefreshTokenRequest{RefreshToken: original})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decode(t, w)["refreshToken"].(string)
	assert.NotEqual(t, original, rotated)

	w = doJSON(t, env.router, http.MethodPost, "/auth/refresh-token", RefreshTokenRequest{RefreshToken: original})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", decode(t, w)["error"])

	w = doJSON(t, env.router, http.MethodPost, "/auth/refresh-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Refresh token is required", decode(t, w)["error"])
}

func TestAuthController_LogoutAndProfile(t *testing.T) {
	env := setupControllerTest(t)
	setupAuthRoutes(env)

	w := doJSON(t, env.router, http.MethodPost, "/auth/register", RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	refresh := body["refreshToken"].(string)
	userID := uint(body["user"].(map[string]interface{})["id"].(float64))

	env.router.POST("/auth/logout", asUser(userID), env.auth.Logout)
	env.router.GET("/auth/me", asUser(userID), env.auth.GetMe)
	env.router.PUT("/auth/me", asUser(userID), env.auth.UpdateMe)

	w = doJSON(t, env.router, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane", decode(t, w)["user"].(map[string]interface{})["username"])

	short := "abc"
	w = doJSON(t, env.router, http.MethodPut, "/auth/me", UpdateProfileRequest{Password: &short})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	name := "jane_doe"
	w = doJSON(t, env.router, http.MethodPut, "/auth/me", UpdateProfileRequest{Username: &name})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane_doe", decode(t, w)["user"].(map[string]interface{})["username"])

	w = doJSON(t, env.router, http.MethodPost, "/auth/logout", RefreshTokenRequest{RefreshToken: refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode(t, w)["message"])
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)

	w = doJSON(t, env.router, http.MethodPost, "/auth/refresh-token", RefreshTokenRequest{RefreshToken: refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
