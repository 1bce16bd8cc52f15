package model

import "time"

// SelectedOption records an option the shopper picked when adding a line item
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Cart holds one user's line items. TotalItems and TotalPrice are derived and
// recomputed from Items on every read and write.
type Cart struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalItems int        `gorm:"not null;default:0" json:"totalItems"`
	TotalPrice float64    `gorm:"not null;default:0" json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem captures the unit price at add time; it is never re-read from the product
type CartItem struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	CartID          uint             `gorm:"not null;index" json:"-"`
	ProductID       uint             `gorm:"not null;index" json:"productId"`
	VariantID       *uint            `gorm:"index" json:"variantId,omitempty"`
	Quantity        int              `gorm:"not null" json:"quantity"`
	Price           float64          `gorm:"not null" json:"price"`
	SelectedOptions []SelectedOption `gorm:"type:text;serializer:json" json:"selectedOptions,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Variant *Variant `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// SameLine reports whether the item is the line for (productID, variantID)
func (i *CartItem) SameLine(productID uint, variantID *uint) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}
	return *i.VariantID == *variantID
}
