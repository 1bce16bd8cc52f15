package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/broker"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/metrics"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound            = apperrors.NotFound(apperrors.OrderNotFound, "Order not found")
	ErrEmptyCart                = apperrors.BadRequest(apperrors.CartEmpty, "cart is empty")
	ErrPaymentMethodRequired    = apperrors.BadRequest(apperrors.ValidationRequired, "Payment method is required")
	ErrInvalidPaymentTransition = apperrors.BadRequest(apperrors.OrderInvalidPaymentStatus, "Invalid payment status transition")
)

type CheckoutInput struct {
	ShippingAddress model.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                `json:"paymentMethod" binding:"required"`
}

type OrderService interface {
	Checkout(ctx context.Context, userID uint, input CheckoutInput) (*model.Order, error)
	GetLatestOrder(userID uint) (*model.Order, error)
	ListOrders(userID uint) ([]model.Order, error)
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	events    broker.OrderEventPublisher
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	events broker.OrderEventPublisher,
	db *gorm.DB,
) OrderService {
	if events == nil {
		events = broker.NoopPublisher{}
	}
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		events:    events,
		db:        db,
	}
}

// Checkout snapshots the caller's cart into a pending order. The cart itself is left as is.
func (s *orderService) Checkout(ctx context.Context, userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Checkout started", map[string]interface{}{
		"user_id": userID,
	})

	paymentMethod := strings.TrimSpace(input.PaymentMethod)
	if paymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	var order *model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.WithTx(tx).FindDetailedByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		applyTotals(cart)
		order = snapshotCart(cart, paymentMethod, input.ShippingAddress)
		return s.orderRepo.WithTx(tx).Create(order)
	})
	if err != nil {
		logger.Warn("Checkout failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	logger.Info("Order created", map[string]interface{}{
		"user_id":     userID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
	})

	if err := s.events.PublishOrderCreated(ctx, broker.NewOrderCreatedEvent(order)); err != nil {
		metrics.OrderEventsFailedTotal.Inc()
		logger.Error("Failed to publish order created event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	return order, nil
}

func snapshotCart(cart *model.Cart, paymentMethod string, address model.ShippingAddress) *model.Order {
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, model.OrderItem{
			ProductID:       item.ProductID,
			VariantID:       item.VariantID,
			ProductName:     name,
			Quantity:        item.Quantity,
			Price:           item.Price,
			SelectedOptions: item.SelectedOptions,
		})
	}

	return &model.Order{
		UserID:          cart.UserID,
		Items:           items,
		TotalPrice:      cart.TotalPrice,
		TotalItems:      cart.TotalItems,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: address,
	}
}

// GetLatestOrder returns the caller's most recent order, or nil when there is none
func (s *orderService) GetLatestOrder(userID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindLatestByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !order.PaymentStatus.CanTransitionTo(status) {
		logger.Warn("Payment status transition rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.PaymentStatus,
			"to":       status,
		})
		return nil, ErrInvalidPaymentTransition
	}

	rows, err := s.orderRepo.UpdatePaymentStatus(orderID, order.PaymentStatus, status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// changed concurrently
		return nil, ErrInvalidPaymentTransition
	}

	metrics.PaymentStatusChangesTotal.WithLabelValues(string(status)).Inc()
	logger.Info("Payment status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	order.PaymentStatus = status
	return order, nil
}
