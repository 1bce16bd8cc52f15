package model

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `gorm:"not null;index" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Brand       string    `gorm:"size:100;index" json:"brand"`
	Featured    bool      `gorm:"index" json:"featured"`
	Rating      float64   `gorm:"not null;default:0" json:"rating"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Categories []Category     `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories"`
	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Tags       []ProductTag   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"tags"`

	// Loaded only by explicit preload on detail reads
	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Reviews  []Review  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// TagNames returns the product's tags as plain strings
func (p *Product) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// ProductImage is an uploaded image; PublicID is the media-store key used for deletion
type ProductImage struct {
	ID        uint   `gorm:"primarykey" json:"-"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	URL       string `gorm:"not null" json:"url"`
	PublicID  string `gorm:"not null" json:"publicId"`
	Position  int    `gorm:"not null;default:0" json:"-"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type ProductTag struct {
	ID        uint   `gorm:"primarykey"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_product_tag"`
	Name      string `gorm:"size:100;not null;uniqueIndex:idx_product_tag;index"`
}

func (ProductTag) TableName() string {
	return "product_tags"
}

// MarshalJSON renders a tag as its bare name
func (t ProductTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Name)
}
