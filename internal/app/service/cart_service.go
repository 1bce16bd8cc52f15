package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/metrics"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound        = apperrors.NotFound(apperrors.CartNotFound, "Cart not found")
	ErrCartItemNotFound    = apperrors.NotFound(apperrors.CartItemNotFound, "Item not found in cart")
	ErrInvalidQuantity     = apperrors.BadRequest(apperrors.CartInvalidQuantity, "Quantity must be at least 1")
	ErrVariantNotOfProduct = apperrors.BadRequest(apperrors.VariantMismatch, "Variant does not belong to this product")
	ErrProductIDRequired   = apperrors.BadRequest(apperrors.ValidationRequired, "productId is required")
)

type AddToCartInput struct {
	ProductID       uint                   `json:"productId"`
	VariantID       *uint                  `json:"variantId"`
	Quantity        *int                   `json:"quantity"`
	SelectedOptions []model.SelectedOption `json:"selectedOptions"`
}

type UpdateCartItemInput struct {
	ProductID uint  `json:"productId"`
	VariantID *uint `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID uint, input AddToCartInput) (*model.Cart, error)
	UpdateItem(userID uint, input UpdateCartItemInput) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	Clear(userID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
		db:          db,
	}
}

// GetCart returns the user's cart with totals recomputed from its items.
// A user without a cart gets an empty one that is not persisted.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindDetailedByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
		}
		return nil, err
	}

	applyTotals(cart)
	return cart, nil
}

func (s *cartService) AddItem(userID uint, input AddToCartInput) (*model.Cart, error) {
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	logger.Debug("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
		"quantity":   quantity,
	})

	if input.ProductID == 0 {
		return nil, ErrProductIDRequired
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).FindByID(input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		price := product.Price
		if input.VariantID != nil {
			variant, err := s.variantRepo.WithTx(tx).FindByID(*input.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrVariantNotFound
				}
				return err
			}
			if variant.ProductID != product.ID {
				logger.Warn("Cart add rejected: variant of another product", map[string]interface{}{
					"product_id": product.ID,
					"variant_id": variant.ID,
				})
				return ErrVariantNotOfProduct
			}
			price = variant.BasePrice
		}

		carts := s.cartRepo.WithTx(tx)
		cart, err := s.findOrCreateCart(carts, userID)
		if err != nil {
			return err
		}

		for _, item := range cart.Items {
			if item.SameLine(input.ProductID, input.VariantID) {
				if err := carts.UpdateItemQuantity(item.ID, item.Quantity+quantity); err != nil {
					return err
				}
				return s.storeTotals(carts, userID)
			}
		}

		item := &model.CartItem{
			CartID:          cart.ID,
			ProductID:       input.ProductID,
			VariantID:       input.VariantID,
			Quantity:        quantity,
			Price:           price,
			SelectedOptions: input.SelectedOptions,
		}
		if err := carts.CreateItem(item); err != nil {
			return err
		}
		return s.storeTotals(carts, userID)
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
	})
	return s.GetCart(userID)
}

func (s *cartService) findOrCreateCart(carts repository.CartRepository, userID uint) (*model.Cart, error) {
	cart, err := carts.FindByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{UserID: userID}
	if err := carts.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// storeTotals reloads the cart's items and persists the recomputed totals
func (s *cartService) storeTotals(carts repository.CartRepository, userID uint) error {
	cart, err := carts.FindByUserID(userID)
	if err != nil {
		return err
	}
	applyTotals(cart)
	return carts.UpdateTotals(cart)
}

func (s *cartService) findCart(carts repository.CartRepository, userID uint) (*model.Cart, error) {
	cart, err := carts.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

func (s *cartService) UpdateItem(userID uint, input UpdateCartItemInput) (*model.Cart, error) {
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		cart, err := s.findCart(carts, userID)
		if err != nil {
			return err
		}

		for _, item := range cart.Items {
			if item.SameLine(input.ProductID, input.VariantID) {
				if err := carts.UpdateItemQuantity(item.ID, input.Quantity); err != nil {
					return err
				}
				return s.storeTotals(carts, userID)
			}
		}
		return ErrCartItemNotFound
	})
	if err != nil {
		logger.Warn("Cart item update failed", map[string]interface{}{
			"user_id":    userID,
			"product_id": input.ProductID,
			"error":      err.Error(),
		})
		return nil, err
	}

	metrics.CartMutationsTotal.WithLabelValues("update").Inc()
	return s.GetCart(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		cart, err := s.findCart(carts, userID)
		if err != nil {
			return err
		}

		removed, err := carts.DeleteItem(cart.ID, itemID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return ErrCartItemNotFound
		}
		return s.storeTotals(carts, userID)
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	logger.Info("Item removed from cart", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})
	return s.GetCart(userID)
}

func (s *cartService) Clear(userID uint) (*model.Cart, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)
		cart, err := s.findCart(carts, userID)
		if err != nil {
			return err
		}
		if err := carts.DeleteAllItems(cart.ID); err != nil {
			return err
		}
		return s.storeTotals(carts, userID)
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	logger.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return s.GetCart(userID)
}
