package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// ColorOption is one distinct color offered by any variant
type ColorOption struct {
	HexCode     string `json:"hexCode"`
	DisplayName string `json:"displayName"`
	Value       string `json:"value"`
}

type VariantRepository interface {
	Create(variant *model.Variant) error
	FindByID(id uint) (*model.Variant, error)
	FindByIDAndProduct(id, productID uint) (*model.Variant, error)
	FindByProductID(productID uint) ([]model.Variant, error)
	Update(variant *model.Variant, options []model.VariantOption) error
	Delete(id, productID uint) error
	ProductIDsByColors(colors []string) ([]uint, error)
	DistinctColors() ([]ColorOption, error)
	WithTx(tx *gorm.DB) VariantRepository
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) WithTx(tx *gorm.DB) VariantRepository {
	return &variantRepository{db: tx}
}

func (r *variantRepository) Create(variant *model.Variant) error {
	logger.Debug("Creating variant in database", map[string]interface{}{
		"product_id": variant.ProductID,
		"sku":        variant.SKU,
		"options":    len(variant.Options),
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create variant", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"sku":        variant.SKU,
		})
		return err
	}
	return nil
}

func (r *variantRepository) FindByID(id uint) (*model.Variant, error) {
	var variant model.Variant
	if err := r.db.Preload("Options").First(&variant, id).Error; err != nil {
		logger.Debug("Variant not loaded by ID", map[string]interface{}{
			"variant_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByIDAndProduct(id, productID uint) (*model.Variant, error) {
	var variant model.Variant
	err := r.db.Preload("Options").
		Where("id = ? AND product_id = ?", id, productID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByProductID(productID uint) ([]model.Variant, error) {
	variants := []model.Variant{}
	err := r.db.Preload("Options").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&variants).Error
	if err != nil {
		logger.Error("Failed to list variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

// Update saves the variant columns. A non-nil options slice replaces the option set.
func (r *variantRepository) Update(variant *model.Variant, options []model.VariantOption) error {
	logger.Debug("Updating variant in database", map[string]interface{}{
		"variant_id": variant.ID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(variant).Error; err != nil {
			return err
		}
		if options == nil {
			return nil
		}
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&model.VariantOption{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].ID = 0
			options[i].VariantID = variant.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		variant.Options = options
		return nil
	})
	if err != nil {
		logger.Error("Failed to update variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

// Delete removes a variant of productID along with its options and the cart lines that use it
func (r *variantRepository) Delete(id, productID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND product_id = ?", id, productID).Delete(&model.Variant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("variant_id = ?", id).Delete(&model.VariantOption{}).Error; err != nil {
			return err
		}
		return tx.Where("variant_id = ?", id).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		logger.Warn("Variant not deleted", map[string]interface{}{
			"variant_id": id,
			"product_id": productID,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}

// ProductIDsByColors returns the distinct products owning a variant with any of the given colors
func (r *variantRepository) ProductIDsByColors(colors []string) ([]uint, error) {
	ids := []uint{}
	err := r.db.Model(&model.Variant{}).
		Distinct("variants.product_id").
		Joins("JOIN variant_options ON variant_options.variant_id = variants.id").
		Where("variant_options.type = ? AND variant_options.value IN ?", model.OptionColor, colors).
		Order("variants.product_id ASC").
		Pluck("variants.product_id", &ids).Error
	if err != nil {
		logger.Error("Failed to resolve products by color", err, map[string]interface{}{
			"colors": colors,
		})
		return nil, err
	}

	logger.Debug("Resolved products by color", map[string]interface{}{
		"colors":   colors,
		"products": len(ids),
	})
	return ids, nil
}

func (r *variantRepository) DistinctColors() ([]ColorOption, error) {
	colors := []ColorOption{}
	err := r.db.Model(&model.VariantOption{}).
		Distinct("hex_code", "display_name", "value").
		Where("type = ?", model.OptionColor).
		Order("value ASC").
		Scan(&colors).Error
	if err != nil {
		logger.Error("Failed to list variant colors", err)
		return nil, err
	}
	return colors, nil
}
