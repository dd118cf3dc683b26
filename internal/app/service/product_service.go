package service

import (
	"errors"
	"fmt"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the product that blocked an operation
// and how much stock was actually left.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available, %d requested",
		e.ProductName, e.Available, e.Requested)
}

// Is lets errors.Is(err, ErrInsufficientStock) match the typed error.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ProductDetail bundles a product with its reviews and rating summary.
type ProductDetail struct {
	Product       model.Product  `json:"product"`
	Reviews       []model.Review `json:"reviews"`
	AverageRating float64        `json:"average_rating"`
	ReviewCount   int            `json:"review_count"`
}

type CreateProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	CategoryID  uint
	ImageURL    string
	Stock       int
	Available   bool
}

type ProductService interface {
	ListProducts(categorySlug, search string, limit, offset int) ([]model.Product, error)
	GetProductDetail(id uint) (*ProductDetail, error)
	GetCategories() ([]model.Category, error)
	CreateProduct(input CreateProductInput) (*model.Product, error)
	UpdateProduct(id uint, input CreateProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	Restock(id uint, qty int) (*model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

// ListProducts returns available products, optionally narrowed by
// category slug and a name/description search term.
func (s *productService) ListProducts(categorySlug, search string, limit, offset int) ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		CategorySlug:  categorySlug,
		Search:        search,
		AvailableOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"category_slug": categorySlug,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductDetail(id uint) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProductID(id)
	if err != nil {
		return nil, err
	}

	average, err := s.reviewRepo.AverageRating(id)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{
		Product:       *product,
		Reviews:       reviews,
		AverageRating: average,
		ReviewCount:   len(reviews),
	}, nil
}

func (s *productService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *productService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":        input.Name,
		"category_id": input.CategoryID,
		"stock":       input.Stock,
	})

	if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		Available:   input.Available && input.Stock > 0,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input CreateProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = input.Name
	product.Slug = input.Slug
	product.Description = input.Description
	product.Price = input.Price
	product.CategoryID = input.CategoryID
	product.ImageURL = input.ImageURL
	product.Stock = input.Stock
	product.Available = input.Available && input.Stock > 0

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// Restock adds qty units and re-marks the product available.
func (s *productService) Restock(id uint, qty int) (*model.Product, error) {
	logger.Info("Restocking product", map[string]interface{}{
		"product_id": id,
		"quantity":   qty,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.productRepo.AddStock(id, qty); err != nil {
		return nil, err
	}
	return s.productRepo.FindByID(id)
}
