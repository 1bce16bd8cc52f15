package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// ListReviews returns the reviews of a product
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	reviews, err := ctrl.reviewService.List(productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
	})
}

func (ctrl *ReviewController) bind(c *gin.Context) (uint, uint, service.ReviewInput, bool) {
	var input service.ReviewInput

	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, input, false
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return 0, 0, input, false
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, err)
		return 0, 0, input, false
	}
	return userID, productID, input, true
}

// CreateReview adds the caller's review
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	userID, productID, input, ok := ctrl.bind(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.Create(userID, productID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"review":  review,
	})
}

// UpdateReview changes the caller's review
// PATCH /api/v1/products/:id/reviews
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	userID, productID, input, ok := ctrl.bind(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.Update(userID, productID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"review":  review,
	})
}

// DeleteReview removes the caller's review
// DELETE /api/v1/products/:id/reviews
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := ctrl.reviewService.Delete(userID, productID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted successfully",
	})
}
