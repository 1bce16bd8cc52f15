package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
	ClaimsKey    = "token_claims"
)

// AccessTokenCookie is the signed cookie carrying the access token
const AccessTokenCookie = "accessToken"

// TokenBlacklist reports access tokens revoked before their expiry
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// UserFinder loads the current state of a user for role checks
type UserFinder interface {
	FindByID(id uint) (*model.User, error)
}

type AuthMiddleware struct {
	accessSecret string
	cookies      *util.CookieCodec
	blacklist    TokenBlacklist
	users        UserFinder
}

// NewAuthMiddleware builds the middleware. blacklist may be nil when revocation is disabled.
func NewAuthMiddleware(accessSecret string, cookies *util.CookieCodec, blacklist TokenBlacklist, users UserFinder) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
		cookies:      cookies,
		blacklist:    blacklist,
		users:        users,
	}
}

// extractToken prefers the signed cookie and falls back to the Authorization header
func (m *AuthMiddleware) extractToken(c *gin.Context) (string, bool) {
	if signed, err := c.Cookie(AccessTokenCookie); err == nil && signed != "" {
		token, err := m.cookies.Decode(AccessTokenCookie, signed)
		if err == nil {
			return token, true
		}
		GetLoggerFromContext(c).Debug("Ignoring unreadable access token cookie", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the access token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := m.extractToken(c)
		if !ok {
			log.Warn("Missing access token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := util.ValidateAccessToken(token, m.accessSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Not authorized, token expired")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Not authorized, token failed")
			}
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// revocation store unavailable; the signature and expiry checks still hold
				log.Warn("Token blacklist lookup failed", map[string]interface{}{
					"error": err.Error(),
				})
			} else if revoked {
				log.Warn("Revoked token presented", map[string]interface{}{
					"user_id": claims.UserID,
				})
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Not authorized, token revoked")
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, model.UserRole(claims.Role))
		c.Set(ClaimsKey, claims)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})

		c.Next()
	}
}

// RequireRole re-reads the user and checks the stored role. The role embedded
// in the token is not trusted since it may have changed after issuance.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		userID, ok := GetUserID(c)
		if !ok {
			log.Warn("Role check without authenticated user", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzRoleNotFound, "Not authorized as an admin")
			return
		}

		user, err := m.users.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("Token user no longer exists", map[string]interface{}{
					"user_id": userID,
				})
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthUnauthorized, "Not authorized, user not found")
				return
			}
			apperrors.Respond(c, err)
			return
		}

		for _, r := range roles {
			if user.Role == r {
				c.Set(UserRoleKey, user.Role)
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      user.Role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzForbidden, "Not authorized as an admin")
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

func GetUserRole(c *gin.Context) (model.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(model.UserRole)
	return r, ok
}

// GetClaims returns the verified access token claims
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	cl, ok := claims.(*util.Claims)
	return cl, ok
}
