package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// CanTransitionTo allows pending -> paid | failed only
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusPending && (next == PaymentStatusPaid || next == PaymentStatusFailed)
}

type ShippingAddress struct {
	FullName   string `gorm:"size:255" json:"fullName" binding:"required"`
	Address    string `gorm:"size:500" json:"address" binding:"required"`
	City       string `gorm:"size:100" json:"city" binding:"required"`
	PostalCode string `gorm:"size:20" json:"postalCode" binding:"required"`
	Country    string `gorm:"size:100" json:"country" binding:"required"`
}

// Order is an immutable snapshot of a cart taken at checkout
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"userId"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice      float64         `gorm:"not null" json:"totalPrice"`
	TotalItems      int             `gorm:"not null" json:"totalItems"`
	PaymentMethod   string          `gorm:"size:50;not null" json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem keeps ids without foreign keys so deleting a product never rewrites history
type OrderItem struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	OrderID         uint             `gorm:"not null;index" json:"-"`
	ProductID       uint             `gorm:"not null;index" json:"productId"`
	VariantID       *uint            `json:"variantId,omitempty"`
	ProductName     string           `gorm:"size:255" json:"productName"`
	Quantity        int              `gorm:"not null" json:"quantity"`
	Price           float64          `gorm:"not null" json:"price"`
	SelectedOptions []SelectedOption `gorm:"type:text;serializer:json" json:"selectedOptions,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
