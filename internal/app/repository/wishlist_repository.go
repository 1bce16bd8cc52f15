package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	FindByUserID(userID uint) (*model.Wishlist, error)
	Create(wishlist *model.Wishlist) error
	AddItem(wishlistID, productID uint) error
	RemoveItem(wishlistID, productID uint) (int64, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) FindByUserID(userID uint) (*model.Wishlist, error) {
	var wishlist model.Wishlist
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("wishlist_items.id ASC") }).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		First(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *wishlistRepository) Create(wishlist *model.Wishlist) error {
	if err := r.db.Create(wishlist).Error; err != nil {
		logger.Error("Failed to create wishlist", err, map[string]interface{}{
			"user_id": wishlist.UserID,
		})
		return err
	}
	return nil
}

// AddItem is idempotent: adding a product twice leaves one entry
func (r *wishlistRepository) AddItem(wishlistID, productID uint) error {
	logger.Debug("Adding product to wishlist", map[string]interface{}{
		"wishlist_id": wishlistID,
		"product_id":  productID,
	})

	item := model.WishlistItem{WishlistID: wishlistID, ProductID: productID}
	err := r.db.Omit("Product").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
	if err != nil {
		logger.Error("Failed to add product to wishlist", err, map[string]interface{}{
			"wishlist_id": wishlistID,
			"product_id":  productID,
		})
		return err
	}
	return nil
}

func (r *wishlistRepository) RemoveItem(wishlistID, productID uint) (int64, error) {
	result := r.db.Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&model.WishlistItem{})
	if result.Error != nil {
		logger.Error("Failed to remove product from wishlist", result.Error, map[string]interface{}{
			"wishlist_id": wishlistID,
			"product_id":  productID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
