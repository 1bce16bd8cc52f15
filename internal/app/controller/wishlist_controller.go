package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
)

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

// GetWishlist returns the caller's wishlisted products
// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	products, err := ctrl.wishlistService.Get(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"wishlist": products,
	})
}

// AddToWishlist adds a product; adding it twice is a no-op
// POST /api/v1/wishlist/:productId
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	products, err := ctrl.wishlistService.Add(userID, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"wishlist": products,
	})
}

// RemoveFromWishlist drops a product
// DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	products, err := ctrl.wishlistService.Remove(userID, productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"wishlist": products,
	})
}
