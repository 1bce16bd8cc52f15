package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/metrics"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

const MinUsernameLength = 3

var (
	ErrMissingCredentials   = apperrors.BadRequest(apperrors.AuthMissingCredentials, "Provide all credentials")
	ErrLoginFieldsRequired  = apperrors.BadRequest(apperrors.AuthMissingCredentials, "Email and password are required.")
	ErrUserAlreadyExists    = apperrors.BadRequest(apperrors.AuthUserExists, "User already exists")
	ErrInvalidEmail         = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Please provide a valid email")
	ErrUsernameTooShort     = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Username must be at least 3 characters")
	ErrPasswordTooShort     = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Password must be at least 6 characters")
	ErrUsernameTaken        = apperrors.BadRequest(apperrors.ValidationDuplicate, "Username is already taken")
	ErrInvalidCredentials   = apperrors.Unauthenticated(apperrors.AuthInvalidCredentials, "Invalid credentials.")
	ErrRefreshTokenRequired = apperrors.Unauthenticated(apperrors.AuthRefreshRequired, "Refresh token is required")
	ErrInvalidRefreshToken  = apperrors.Unauthenticated(apperrors.AuthRefreshInvalid, "Invalid refresh token")
	ErrUserNotFound         = apperrors.NotFound(apperrors.ResourceNotFound, "User not found")
)

var validate = validator.New()

// TokenRevoker blacklists access tokens before their natural expiry
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Username *string
	Password *string
}

// AuthResult is what register and login hand back to the client
type AuthResult struct {
	User   *model.User
	Tokens *util.TokenPair
}

type AuthService interface {
	Register(input RegisterInput) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	Refresh(refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, userID uint, refreshToken string, access *util.Claims) error
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	tokens    util.TokenConfig
	revoker   TokenRevoker
}

// NewAuthService builds the auth service. revoker may be nil, in which case
// logout only drops the refresh token.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokens util.TokenConfig,
	revoker TokenRevoker,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		revoker:   revoker,
	}
}

// HashRefreshToken is the digest stored in place of a refresh token
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    email,
		"username": username,
	})

	if username == "" || email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}
	if len(username) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(input.Password) < util.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}

	existing, err := s.userRepo.FindByEmailOrUsername(email, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Registration failed: user already exists", map[string]interface{}{
			"email":    email,
			"username": username,
		})
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleCustomer,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authService) Login(email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	if email == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: password mismatch", map[string]interface{}{
			"user_id": user.ID,
		})
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := s.tokenRepo.PruneExpired(user.ID, time.Now()); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.tokens)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	err = s.tokenRepo.Add(&model.RefreshToken{
		UserID:    user.ID,
		TokenHash: HashRefreshToken(tokens.RefreshToken),
		ExpiresAt: tokens.RefreshExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new pair is issued
func (s *authService) Refresh(refreshToken string) (*util.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := util.ValidateRefreshToken(refreshToken, s.tokens.RefreshSecret)
	if err != nil {
		logger.Warn("Refresh rejected: token invalid", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.tokens)
	if err != nil {
		return nil, err
	}

	err = s.tokenRepo.Rotate(user.ID, HashRefreshToken(refreshToken), &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: HashRefreshToken(tokens.RefreshToken),
		ExpiresAt: tokens.RefreshExpiresAt,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Refresh rejected: token not in user's set", map[string]interface{}{
				"user_id": user.ID,
			})
			metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	logger.Info("Refresh token rotated", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

// Logout drops refreshToken from the user's set and, when a revoker is
// configured, blacklists the access token until it expires.
func (s *authService) Logout(ctx context.Context, userID uint, refreshToken string, access *util.Claims) error {
	if refreshToken != "" {
		if err := s.tokenRepo.Remove(userID, HashRefreshToken(refreshToken)); err != nil {
			return err
		}
	}

	if s.revoker != nil && access != nil && access.ID != "" && access.ExpiresAt != nil {
		if err := s.revoker.Revoke(ctx, access.ID, time.Until(access.ExpiresAt.Time)); err != nil {
			logger.Warn("Failed to revoke access token on logout", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *authService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < MinUsernameLength {
			return nil, ErrUsernameTooShort
		}
		if username != user.Username {
			taken, err := s.userRepo.ExistsByUsername(username, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameTaken
			}
			user.Username = username
		}
	}

	if input.Password != nil {
		if len(*input.Password) < util.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := util.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id":          user.ID,
		"password_changed": input.Password != nil,
	})
	return user, nil
}
