package service

import (
	"errors"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// Cart is a user's cart with per-line products preloaded and the
// running total at current prices.
type Cart struct {
	Items     []model.CartItem `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	ItemCount int              `json:"item_count"`
}

type CartService interface {
	GetUserCart(userID uint) (*Cart, error)
	AddToCart(userID, productID uint, quantity int) (*model.CartItem, error)
	UpdateCartItem(userID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, itemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) (*Cart, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart := &Cart{
		Items: items,
		Total: decimal.Zero,
	}
	for i := range items {
		cart.Total = cart.Total.Add(items[i].LineTotal())
		cart.ItemCount += items[i].Quantity
	}
	return cart, nil
}

// AddToCart puts quantity units of a product into the user's cart.
// Re-adding a product the cart already holds increments the existing
// line, capped by the product's stock. A brand-new line only requires
// the product to be in stock.
func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if !product.IsInStock() {
		return nil, ErrOutOfStock
	}

	existing, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		wanted := existing.Quantity + quantity
		if wanted > product.Stock {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   wanted,
			}
		}
		existing.Quantity = wanted
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		existing.Product = *product
		return existing, nil
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		logger.Error("Failed to add cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}
	item.Product = *product
	return item, nil
}

// UpdateCartItem sets a line's quantity. A quantity of zero or less
// removes the line.
func (s *cartService) UpdateCartItem(userID, itemID uint, quantity int) (*model.CartItem, error) {
	item, err := s.cartRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		if err := s.cartRepo.Delete(item.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.productRepo.FindByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, &InsufficientStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   quantity,
		}
	}

	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}
	item.Product = *product
	return item, nil
}

func (s *cartService) RemoveFromCart(userID, itemID uint) error {
	item, err := s.cartRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if item.UserID != userID {
		return ErrCartItemNotFound
	}
	return s.cartRepo.Delete(item.ID)
}

func (s *cartService) ClearCart(userID uint) error {
	return s.cartRepo.DeleteByUserID(userID)
}
