package repository

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// RefreshTokenRepository manages each user's set of live refresh tokens
type RefreshTokenRepository interface {
	Add(token *model.RefreshToken) error
	Rotate(userID uint, oldHash string, next *model.RefreshToken) error
	Remove(userID uint, tokenHash string) error
	PruneExpired(userID uint, now time.Time) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Add(token *model.RefreshToken) error {
	if err := r.db.Create(token).Error; err != nil {
		logger.Error("Failed to store refresh token", err, map[string]interface{}{
			"user_id": token.UserID,
		})
		return err
	}
	return nil
}

// Rotate removes oldHash and stores next in one transaction.
// It returns gorm.ErrRecordNotFound when oldHash is not in the user's set,
// so a token can be rotated at most once.
func (r *refreshTokenRepository) Rotate(userID uint, oldHash string, next *model.RefreshToken) error {
	logger.Debug("Rotating refresh token", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND token_hash = ?", userID, oldHash).Delete(&model.RefreshToken{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(next).Error
	})
	if err != nil {
		logger.Warn("Refresh token rotation failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (r *refreshTokenRepository) Remove(userID uint, tokenHash string) error {
	err := r.db.Where("user_id = ? AND token_hash = ?", userID, tokenHash).
		Delete(&model.RefreshToken{}).Error
	if err != nil {
		logger.Error("Failed to remove refresh token", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

func (r *refreshTokenRepository) PruneExpired(userID uint, now time.Time) error {
	result := r.db.Where("user_id = ? AND expires_at <= ?", userID, now).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.Error("Failed to prune expired refresh tokens", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Debug("Pruned expired refresh tokens", map[string]interface{}{
			"user_id": userID,
			"count":   result.RowsAffected,
		})
	}
	return nil
}
