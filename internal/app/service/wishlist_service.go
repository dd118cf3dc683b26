package service

import (
	"errors"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	AddToWishlist(userID, productID uint) (*model.WishlistItem, error)
	RemoveFromWishlist(userID, productID uint) error
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

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	return s.wishlistRepo.FindByUserID(userID)
}

// AddToWishlist is idempotent: adding a product already on the list
// returns the existing entry.
func (s *wishlistService) AddToWishlist(userID, productID uint) (*model.WishlistItem, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.wishlistRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Product = *product
		return existing, nil
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		return nil, err
	}
	item.Product = *product
	return item, nil
}

func (s *wishlistService) RemoveFromWishlist(userID, productID uint) error {
	deleted, err := s.wishlistRepo.DeleteByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}
