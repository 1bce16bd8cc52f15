package model

import "time"

type Wishlist struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"userId"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

// Products lists the wishlisted products in insertion order
func (w *Wishlist) Products() []Product {
	products := make([]Product, 0, len(w.Items))
	for _, item := range w.Items {
		if item.Product != nil {
			products = append(products, *item.Product)
		}
	}
	return products
}

type WishlistItem struct {
	ID         uint      `gorm:"primarykey"`
	WishlistID uint      `gorm:"not null;uniqueIndex:idx_wishlist_product"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_wishlist_product;index"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
