package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotInWishlist = apperrors.NotFound(apperrors.WishlistItemNotFound, "Product not in wishlist")

type WishlistService interface {
	Get(userID uint) ([]model.Product, error)
	Add(userID, productID uint) ([]model.Product, error)
	Remove(userID, productID uint) ([]model.Product, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) Get(userID uint) ([]model.Product, error) {
	wishlist, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Product{}, nil
		}
		return nil, err
	}
	return wishlist.Products(), nil
}

func (s *wishlistService) Add(userID, productID uint) ([]model.Product, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	wishlist, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		wishlist = &model.Wishlist{UserID: userID}
		if err := s.wishlistRepo.Create(wishlist); err != nil {
			return nil, err
		}
	}

	if err := s.wishlistRepo.AddItem(wishlist.ID, productID); err != nil {
		return nil, err
	}

	logger.Info("Product added to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return s.Get(userID)
}

func (s *wishlistService) Remove(userID, productID uint) ([]model.Product, error) {
	wishlist, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInWishlist
		}
		return nil, err
	}

	removed, err := s.wishlistRepo.RemoveItem(wishlist.ID, productID)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		return nil, ErrNotInWishlist
	}

	logger.Info("Product removed from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return s.Get(userID)
}
