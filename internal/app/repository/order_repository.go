package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindLatestByUserID(userID uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	UpdatePaymentStatus(id uint, from, to model.PaymentStatus) (int64, error)
	WithTx(tx *gorm.DB) OrderRepository
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

// Create inserts the order and its items
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":     order.UserID,
		"items":       len(order.Items),
		"total_price": order.TotalPrice,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
	})
	return nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items", orderItems).First(&order, id).Error; err != nil {
		logger.Debug("Order not loaded", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindLatestByUserID(userID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items", orderItems).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.db.Preload("Items", orderItems).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

// UpdatePaymentStatus moves the order from one status to another.
// Zero rows affected means the order was not in the from status.
func (r *orderRepository) UpdatePaymentStatus(id uint, from, to model.PaymentStatus) (int64, error) {
	logger.Debug("Updating payment status", map[string]interface{}{
		"order_id": id,
		"from":     from,
		"to":       to,
	})

	result := r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	if result.Error != nil {
		logger.Error("Failed to update payment status", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
