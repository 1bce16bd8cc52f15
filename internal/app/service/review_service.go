package service

import (
	"errors"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/metrics"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = apperrors.NotFound(apperrors.ReviewNotFound, "Review not found")
	ErrReviewCommentEmpty  = apperrors.BadRequest(apperrors.ReviewCommentEmpty, "Comment is required!")
	ErrReviewRatingTooLow  = apperrors.BadRequest(apperrors.ReviewInvalidRating, "Rating must be at least 1")
	ErrReviewRatingTooHigh = apperrors.BadRequest(apperrors.ReviewInvalidRating, "Rating must be at most 5")
	ErrReviewExists        = apperrors.BadRequest(apperrors.ReviewAlreadyExists, "You have already reviewed this product")
)

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewService interface {
	List(productID uint) ([]model.Review, error)
	Create(userID, productID uint, input ReviewInput) (*model.Review, error)
	Update(userID, productID uint, input ReviewInput) (*model.Review, error)
	Delete(userID, productID uint) error
	RecomputeRating(tx *gorm.DB, productID uint) (float64, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		db:          db,
	}
}

func validateReview(input *ReviewInput) error {
	input.Comment = strings.TrimSpace(input.Comment)
	if input.Comment == "" {
		return ErrReviewCommentEmpty
	}
	if input.Rating < model.MinRating {
		return ErrReviewRatingTooLow
	}
	if input.Rating > model.MaxRating {
		return ErrReviewRatingTooHigh
	}
	return nil
}

func (s *reviewService) List(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByProductID(productID)
}

// RecomputeRating writes the mean of the product's current ratings onto the product.
// Pass the transaction the review change ran in, or nil to use the service's database.
func (s *reviewService) RecomputeRating(tx *gorm.DB, productID uint) (float64, error) {
	if tx == nil {
		tx = s.db
	}

	avg, err := s.reviewRepo.WithTx(tx).AverageRating(productID)
	if err != nil {
		return 0, err
	}
	if err := s.productRepo.WithTx(tx).UpdateRating(productID, avg); err != nil {
		return 0, err
	}

	logger.Debug("Product rating recomputed", map[string]interface{}{
		"product_id": productID,
		"rating":     avg,
	})
	return avg, nil
}

func (s *reviewService) Create(userID, productID uint, input ReviewInput) (*model.Review, error) {
	if err := validateReview(&input); err != nil {
		return nil, err
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productRepo.WithTx(tx).FindByID(productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		reviews := s.reviewRepo.WithTx(tx)
		_, err := reviews.FindByUserAndProduct(userID, productID)
		if err == nil {
			return ErrReviewExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := reviews.Create(review); err != nil {
			return err
		}
		_, err = s.RecomputeRating(tx, productID)
		return err
	})
	if err != nil {
		logger.Warn("Review not created", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	metrics.ReviewMutationsTotal.WithLabelValues("create").Inc()
	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
	})
	return review, nil
}

func (s *reviewService) Update(userID, productID uint, input ReviewInput) (*model.Review, error) {
	if err := validateReview(&input); err != nil {
		return nil, err
	}

	var review *model.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviews := s.reviewRepo.WithTx(tx)
		found, err := reviews.FindByUserAndProduct(userID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		found.Rating = input.Rating
		found.Comment = input.Comment
		if err := reviews.Update(found); err != nil {
			return err
		}
		review = found

		_, err = s.RecomputeRating(tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewMutationsTotal.WithLabelValues("update").Inc()
	logger.Info("Review updated", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
	})
	return review, nil
}

func (s *reviewService) Delete(userID, productID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reviews := s.reviewRepo.WithTx(tx)
		review, err := reviews.FindByUserAndProduct(userID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if err := reviews.Delete(review); err != nil {
			return err
		}

		_, err = s.RecomputeRating(tx, productID)
		return err
	})
	if err != nil {
		return err
	}

	metrics.ReviewMutationsTotal.WithLabelValues("delete").Inc()
	logger.Info("Review deleted", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}
