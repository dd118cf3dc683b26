package repository

import (
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(db *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint, status model.OrderStatus) ([]model.Order, error)
	CountByStatus(userID uint) (map[model.OrderStatus]int64, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	UpdatePaid(id uint, paid bool) error
	UpdateTrackingNumber(id uint, trackingNumber string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product")
	})
}

// Create inserts the order and its items inside the given transaction
// handle; pass nil outside a transaction.
func (r *orderRepository) Create(db *gorm.DB, order *model.Order) error {
	if db == nil {
		db = r.db
	}

	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":     order.UserID,
		"total_price": order.TotalPrice,
		"item_count":  len(order.OrderItems),
	})

	if err := db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

// FindByUserID returns the user's orders, newest first, optionally
// narrowed to a single status.
func (r *orderRepository) FindByUserID(userID uint, status model.OrderStatus) ([]model.Order, error) {
	query := r.preloadOrder().Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
			"status":  status,
		})
		return nil, err
	}
	return orders, nil
}

// CountByStatus counts the user's orders per status across all of
// their orders, with zero entries for unused statuses.
func (r *orderRepository) CountByStatus(userID uint) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count orders by status in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, status := range model.OrderStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		logger.Error("Failed to update order status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}
	return nil
}

func (r *orderRepository) UpdatePaid(id uint, paid bool) error {
	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("paid", paid).Error; err != nil {
		logger.Error("Failed to update order paid flag in database", err, map[string]interface{}{
			"order_id": id,
			"paid":     paid,
		})
		return err
	}
	return nil
}

func (r *orderRepository) UpdateTrackingNumber(id uint, trackingNumber string) error {
	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("tracking_number", trackingNumber).Error; err != nil {
		logger.Error("Failed to update order tracking number in database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}
	return nil
}
