package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

func cartResponse(c *gin.Context, status int, cart *model.Cart) {
	c.JSON(status, gin.H{
		"success": true,
		"cart":    cart,
	})
}

// GetCart returns the caller's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cartResponse(c, http.StatusOK, cart)
}

// AddToCart adds a line item or increases an existing one
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, err)
		return
	}

	cart, err := ctrl.cartService.AddItem(userID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cartResponse(c, http.StatusOK, cart)
}

// UpdateCartItem sets the quantity of a line item
// PATCH /api/v1/cart/item
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := ctrl.cartService.UpdateItem(userID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cartResponse(c, http.StatusOK, cart)
}

// RemoveFromCart deletes one line item
// DELETE /api/v1/cart/item/:itemId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, itemID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cartResponse(c, http.StatusOK, cart)
}

// ClearCart empties the caller's cart
// DELETE /api/v1/cart/clear
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.Clear(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	cartResponse(c, http.StatusOK, cart)
}
