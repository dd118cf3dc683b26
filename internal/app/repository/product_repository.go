package repository

import (
	"errors"
	"fmt"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock reports a stock decrement larger than the rows
// current stock. The row is left untouched when it is returned.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductFilter struct {
	CategorySlug  string
	Search        string
	AvailableOnly bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	ReduceStock(db *gorm.DB, productID uint, qty int) error
	AddStock(productID uint, qty int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
		"stock":       product.Stock,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	query := r.db.Model(&model.Product{}).Preload("Category")

	if filter.AvailableOnly {
		query = query.Where("products.available = ?", true)
	}
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?)", like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Order("products.created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category_slug": filter.CategorySlug,
			"search":        filter.Search,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		logger.Error("Failed to find product by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	// Save with Select("*") so Available=false survives the update.
	if err := r.db.Model(product).Select("*").Updates(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

// ReduceStock decrements stock by qty inside the given transaction
// handle (pass the repository's own db outside a transaction). The row
// is locked for the duration. When qty exceeds the current stock the
// row is not mutated and ErrInsufficientStock is returned. Stock
// reaching zero flips Available off.
func (r *productRepository) ReduceStock(db *gorm.DB, productID uint, qty int) error {
	if db == nil {
		db = r.db
	}

	var product model.Product
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, productID).Error; err != nil {
		logger.Error("Failed to lock product row for stock decrement", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	if qty > product.Stock {
		logger.Warn("Stock decrement rejected: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  qty,
			"available":  product.Stock,
		})
		return ErrInsufficientStock
	}

	newStock := product.Stock - qty
	updates := map[string]interface{}{"stock": newStock}
	if newStock == 0 {
		updates["available"] = false
	}

	if err := db.Model(&model.Product{}).Where("id = ?", productID).
		Updates(updates).Error; err != nil {
		logger.Error("Failed to decrement product stock", err, map[string]interface{}{
			"product_id": productID,
			"quantity":   qty,
		})
		return err
	}

	logger.Debug("Product stock decremented", map[string]interface{}{
		"product_id": productID,
		"quantity":   qty,
		"stock":      newStock,
	})
	return nil
}

// AddStock increments stock by qty and re-marks the product available.
// No upper bound is enforced.
func (r *productRepository) AddStock(productID uint, qty int) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock":     gorm.Expr("stock + ?", qty),
			"available": true,
		}).Error; err != nil {
		logger.Error("Failed to increment product stock", err, map[string]interface{}{
			"product_id": productID,
			"quantity":   qty,
		})
		return err
	}

	logger.Debug("Product stock incremented", map[string]interface{}{
		"product_id": productID,
		"quantity":   qty,
	})
	return nil
}
