package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus model.PaymentStatus `json:"paymentStatus" binding:"required,oneof=pending paid failed"`
}

// Checkout turns the caller's cart into a pending order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, err)
		return
	}

	order, err := ctrl.orderService.Checkout(c.Request.Context(), userID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"order_id": order.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
	})
}

// GetMyOrder returns the caller's most recent order
// GET /api/v1/orders/myOrders
func (ctrl *OrderController) GetMyOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetLatestOrder(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if order == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   gin.H{"items": []model.OrderItem{}},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// ListOrders returns all of the caller's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListOrders(userID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	})
}

// UpdatePaymentStatus moves a pending order to paid or failed (Admin only)
// PATCH /api/v1/orders/:id/payment-status
func (ctrl *OrderController) UpdatePaymentStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	order, err := ctrl.orderService.UpdatePaymentStatus(orderID, req.PaymentStatus)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Payment status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   req.PaymentStatus,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}
