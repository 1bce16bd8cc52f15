package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUserID(userID uint) (*model.Cart, error)
	FindDetailedByUserID(userID uint) (*model.Cart, error)
	Create(cart *model.Cart) error
	CreateItem(item *model.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID, itemID uint) (int64, error)
	DeleteAllItems(cartID uint) error
	UpdateTotals(cart *model.Cart) error
	WithTx(tx *gorm.DB) CartRepository
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("cart_items.id ASC")
}

// FindByUserID loads the cart with its line items only
func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Preload("Items", itemsInOrder).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindDetailedByUserID also loads the product and variant of every line
func (r *cartRepository) FindDetailedByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Preload("Items", itemsInOrder).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Variant").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		logger.Debug("Cart not loaded", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(cart *model.Cart) error {
	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created", map[string]interface{}{
		"user_id": cart.UserID,
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Adding cart item", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Omit("Product", "Variant").Create(item).Error; err != nil {
		logger.Error("Failed to add cart item", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	err := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
	if err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"item_id":  itemID,
			"quantity": quantity,
		})
		return err
	}
	return nil
}

// DeleteItem removes one line of the cart and reports how many rows went away
func (r *cartRepository) DeleteItem(cartID, itemID uint) (int64, error) {
	result := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete cart item", result.Error, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *cartRepository) DeleteAllItems(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateTotals(cart *model.Cart) error {
	err := r.db.Model(&model.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]interface{}{
			"total_items": cart.TotalItems,
			"total_price": cart.TotalPrice,
		}).Error
	if err != nil {
		logger.Error("Failed to store cart totals", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}
	return nil
}
