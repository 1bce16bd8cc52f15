package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByUserAndProduct(userID, productID uint) (*model.Review, error)
	FindByProductID(productID uint) ([]model.Review, error)
	Update(review *model.Review) error
	Delete(review *model.Review) error
	AverageRating(productID uint) (float64, error)
	WithTx(tx *gorm.DB) ReviewRepository
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"user_id":    review.UserID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	})

	if err := r.db.Omit("User").Create(review).Error; err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    review.UserID,
			"product_id": review.ProductID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByUserAndProduct(userID, productID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductID(productID uint) ([]model.Review, error) {
	reviews := []model.Review{}
	err := r.db.Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "username") }).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	err := r.db.Model(review).Updates(map[string]interface{}{
		"rating":  review.Rating,
		"comment": review.Comment,
	}).Error
	if err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(review *model.Review) error {
	if err := r.db.Delete(&model.Review{}, review.ID).Error; err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

// AverageRating is the mean rating of the product's reviews, 0 when it has none
func (r *reviewRepository) AverageRating(productID uint) (float64, error) {
	var avg float64
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("product_id = ?", productID).
		Scan(&avg).Error
	if err != nil {
		logger.Error("Failed to compute average rating", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return avg, nil
}
