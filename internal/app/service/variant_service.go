package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrVariantNotFound     = apperrors.NotFound(apperrors.VariantNotFound, "Variant not found")
	ErrVariantNameRequired = apperrors.BadRequest(apperrors.ValidationRequired, "Variant name is required")
	ErrVariantPrice        = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Variant price cannot be negative")
	ErrVariantStock        = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Variant stock cannot be negative")
)

// VariantInput describes a variant to create
type VariantInput struct {
	Name             string                   `json:"name"`
	Combination      model.VariantCombination `json:"combination"`
	Options          []model.VariantOption    `json:"options"`
	BasePrice        *float64                 `json:"basePrice"`
	PriceAdjustments float64                  `json:"priceAdjustments"`
	Inventory        model.VariantInventory   `json:"inventory"`
	SKU              string                   `json:"sku"`
	Barcode          string                   `json:"barcode"`
	Weight           float64                  `json:"weight"`
	Dimensions       model.Dimensions         `json:"dimensions"`
	Images           []string                 `json:"images"`
	IsActive         *bool                    `json:"isActive"`
}

// VariantPatch is a partial variant update; nil fields are left unchanged
type VariantPatch struct {
	Name             *string                   `json:"name"`
	Combination      *model.VariantCombination `json:"combination"`
	Options          *[]model.VariantOption    `json:"options"`
	BasePrice        *float64                  `json:"basePrice"`
	PriceAdjustments *float64                  `json:"priceAdjustments"`
	Inventory        *model.VariantInventory   `json:"inventory"`
	SKU              *string                   `json:"sku"`
	Barcode          *string                   `json:"barcode"`
	Weight           *float64                  `json:"weight"`
	Dimensions       *model.Dimensions         `json:"dimensions"`
	Images           *[]string                 `json:"images"`
	IsActive         *bool                     `json:"isActive"`
}

type VariantService interface {
	List(productID uint) ([]model.Variant, error)
	Create(productID uint, input VariantInput) (*model.Variant, error)
	Update(productID, variantID uint, patch VariantPatch) (*model.Variant, error)
	Delete(productID, variantID uint) error
}

type variantService struct {
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
}

func NewVariantService(variantRepo repository.VariantRepository, productRepo repository.ProductRepository) VariantService {
	return &variantService{
		variantRepo: variantRepo,
		productRepo: productRepo,
	}
}

func (s *variantService) findProduct(productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *variantService) List(productID uint) ([]model.Variant, error) {
	if _, err := s.findProduct(productID); err != nil {
		return nil, err
	}
	return s.variantRepo.FindByProductID(productID)
}

func (s *variantService) Create(productID uint, input VariantInput) (*model.Variant, error) {
	product, err := s.findProduct(productID)
	if err != nil {
		return nil, err
	}

	variant, err := buildVariant(product, input)
	if err != nil {
		logger.Warn("Variant rejected", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}

	logger.Info("Variant created", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})
	return variant, nil
}

// buildVariant validates input and fills defaults from product: the base
// price falls back to the product price and a missing SKU is generated.
func buildVariant(product *model.Product, input VariantInput) (*model.Variant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrVariantNameRequired
	}
	if err := validateOptions(input.Options); err != nil {
		return nil, err
	}

	basePrice := product.Price
	if input.BasePrice != nil {
		basePrice = *input.BasePrice
	}
	if basePrice < 0 {
		return nil, ErrVariantPrice
	}
	if input.Inventory.InStock < 0 {
		return nil, ErrVariantStock
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = util.GenerateSKU(product.Name, firstCategoryName(product))
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	options := make([]model.VariantOption, len(input.Options))
	copy(options, input.Options)
	for i := range options {
		options[i].ID = 0
		options[i].VariantID = 0
	}

	return &model.Variant{
		ProductID:        product.ID,
		Name:             name,
		Combination:      input.Combination,
		Options:          options,
		BasePrice:        basePrice,
		PriceAdjustments: input.PriceAdjustments,
		Inventory:        input.Inventory,
		SKU:              sku,
		Barcode:          input.Barcode,
		Weight:           input.Weight,
		Dimensions:       input.Dimensions,
		Images:           input.Images,
		IsActive:         isActive,
	}, nil
}

func validateOptions(options []model.VariantOption) error {
	for _, opt := range options {
		if !model.ValidOptionType(opt.Type) {
			return apperrors.BadRequest(apperrors.ValidationInvalidInput,
				fmt.Sprintf("Invalid option type: %q", opt.Type))
		}
		if strings.TrimSpace(opt.Value) == "" {
			return apperrors.BadRequest(apperrors.ValidationRequired, "Option value is required")
		}
		if strings.TrimSpace(opt.Name) == "" {
			return apperrors.BadRequest(apperrors.ValidationRequired, "Option name is required")
		}
	}
	return nil
}

func firstCategoryName(product *model.Product) string {
	if len(product.Categories) == 0 {
		return ""
	}
	return product.Categories[0].Name
}

func (s *variantService) Update(productID, variantID uint, patch VariantPatch) (*model.Variant, error) {
	if _, err := s.findProduct(productID); err != nil {
		return nil, err
	}

	variant, err := s.variantRepo.FindByIDAndProduct(variantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Variant update rejected: variant not under product", map[string]interface{}{
				"product_id": productID,
				"variant_id": variantID,
			})
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrVariantNameRequired
		}
		variant.Name = name
	}
	if patch.Combination != nil {
		variant.Combination = *patch.Combination
	}
	if patch.BasePrice != nil {
		if *patch.BasePrice < 0 {
			return nil, ErrVariantPrice
		}
		variant.BasePrice = *patch.BasePrice
	}
	if patch.PriceAdjustments != nil {
		variant.PriceAdjustments = *patch.PriceAdjustments
	}
	if patch.Inventory != nil {
		if patch.Inventory.InStock < 0 {
			return nil, ErrVariantStock
		}
		variant.Inventory = *patch.Inventory
	}
	if patch.SKU != nil && strings.TrimSpace(*patch.SKU) != "" {
		variant.SKU = strings.TrimSpace(*patch.SKU)
	}
	if patch.Barcode != nil {
		variant.Barcode = *patch.Barcode
	}
	if patch.Weight != nil {
		variant.Weight = *patch.Weight
	}
	if patch.Dimensions != nil {
		variant.Dimensions = *patch.Dimensions
	}
	if patch.Images != nil {
		variant.Images = *patch.Images
	}
	if patch.IsActive != nil {
		variant.IsActive = *patch.IsActive
	}

	var options []model.VariantOption
	if patch.Options != nil {
		if err := validateOptions(*patch.Options); err != nil {
			return nil, err
		}
		options = append([]model.VariantOption{}, *patch.Options...)
	}

	if err := s.variantRepo.Update(variant, options); err != nil {
		return nil, err
	}

	logger.Info("Variant updated", map[string]interface{}{
		"product_id": productID,
		"variant_id": variantID,
	})
	return s.variantRepo.FindByID(variant.ID)
}

func (s *variantService) Delete(productID, variantID uint) error {
	if _, err := s.findProduct(productID); err != nil {
		return err
	}

	if err := s.variantRepo.Delete(variantID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}

	logger.Info("Variant deleted", map[string]interface{}{
		"product_id": productID,
		"variant_id": variantID,
	})
	return nil
}
