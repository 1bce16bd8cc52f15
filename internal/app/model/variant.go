package model

import (
	"time"

	"github.com/lib/pq"
)

type OptionType string

const (
	OptionColor    OptionType = "color"
	OptionSize     OptionType = "size"
	OptionMaterial OptionType = "material"
	OptionStyle    OptionType = "style"
)

// Variant is a purchasable configuration of a product with its own price, SKU and stock
type Variant struct {
	ID               uint               `gorm:"primarykey" json:"id"`
	ProductID        uint               `gorm:"not null;index" json:"productId"`
	Name             string             `gorm:"size:255;not null" json:"name"`
	Combination      VariantCombination `gorm:"embedded;embeddedPrefix:combination_" json:"combination"`
	Options          []VariantOption    `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"options"`
	BasePrice        float64            `gorm:"not null" json:"basePrice"`
	PriceAdjustments float64            `gorm:"not null;default:0" json:"priceAdjustments"`
	Inventory        VariantInventory   `gorm:"embedded;embeddedPrefix:inventory_" json:"inventory"`
	SKU              string             `gorm:"column:sku;uniqueIndex;size:64;not null" json:"sku"`
	Barcode          string             `gorm:"size:64" json:"barcode,omitempty"`
	Weight           float64            `json:"weight"`
	Dimensions       Dimensions         `gorm:"embedded;embeddedPrefix:dimensions_" json:"dimensions"`
	Images           pq.StringArray     `gorm:"type:text" json:"images"`
	IsActive         bool               `gorm:"not null" json:"isActive"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

func (Variant) TableName() string {
	return "variants"
}

type VariantCombination struct {
	Key       string `gorm:"size:100" json:"id"`
	IsActive  bool   `json:"isActive"`
	IsDefault bool   `json:"isDefault"`
}

type VariantInventory struct {
	InStock             int        `gorm:"not null;default:0" json:"inStock"`
	LowStockThreshold   int        `gorm:"not null;default:0" json:"lowStockThreshold"`
	Backorderable       bool       `json:"backorderable"`
	Preorderable        bool       `json:"preorderable"`
	ExpectedRestockDate *time.Time `json:"expectedRestockDate,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `gorm:"size:10" json:"unit,omitempty"`
}

type VariantOption struct {
	ID          uint       `gorm:"primarykey" json:"-"`
	VariantID   uint       `gorm:"not null;index" json:"-"`
	Type        OptionType `gorm:"type:varchar(20);not null;index:idx_variant_option_type_value" json:"type"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Value       string     `gorm:"size:100;not null;index:idx_variant_option_type_value" json:"value"`
	DisplayName string     `gorm:"size:100" json:"displayName,omitempty"`
	HexCode     string     `gorm:"size:16" json:"hexCode,omitempty"`
	Image       string     `json:"image,omitempty"`
}

func (VariantOption) TableName() string {
	return "variant_options"
}

func ValidOptionType(t OptionType) bool {
	switch t {
	case OptionColor, OptionSize, OptionMaterial, OptionStyle:
		return true
	}
	return false
}
