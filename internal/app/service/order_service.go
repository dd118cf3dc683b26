package service

import (
	"errors"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"github.com/Nil9n/merchshop-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OrderHistory is a user's orders plus a per-status count breakdown.
// The breakdown always carries every status, zero included.
type OrderHistory struct {
	Orders       []model.Order               `json:"orders"`
	StatusCounts map[model.OrderStatus]int64 `json:"status_counts"`
}

type OrderService interface {
	PlaceOrder(userID uint, form *CheckoutForm) (*model.Order, error)
	GetUserOrders(userID uint, status model.OrderStatus) (*OrderHistory, error)
	GetOrder(userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	MarkPaid(orderID uint) (*model.Order, error)
	SetTracking(orderID uint, trackingNumber string) (*model.Order, error)
}

type orderService struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// PlaceOrder turns the user's cart into an order. Preconditions are
// checked in a fixed sequence: non-empty cart, per-line stock, then
// form validation. The order, its item snapshots, the stock decrements
// and the cart clear happen in one transaction; any failure leaves
// cart and stock untouched.
func (s *orderService) PlaceOrder(userID uint, form *CheckoutForm) (*model.Order, error) {
	items, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	for i := range items {
		if items[i].Quantity > items[i].Product.Stock {
			return nil, &InsufficientStockError{
				ProductName: items[i].Product.Name,
				Available:   items[i].Product.Stock,
				Requested:   items[i].Quantity,
			}
		}
	}

	if fields := form.Validate(); len(fields) > 0 {
		return nil, &CheckoutValidationError{Fields: fields}
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read every product under a row lock so concurrent
		// checkouts serialize on stock.
		total := decimal.Zero
		locked := make([]model.Product, len(items))
		for i := range items {
			var product model.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, items[i].ProductID).Error; err != nil {
				return err
			}
			if items[i].Quantity > product.Stock {
				return &InsufficientStockError{
					ProductName: product.Name,
					Available:   product.Stock,
					Requested:   items[i].Quantity,
				}
			}
			locked[i] = product
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
		}

		order = &model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			PaymentMethod:   form.PaymentMethod,
			TotalPrice:      total,
			CustomerName:    form.CustomerName,
			CustomerEmail:   form.CustomerEmail,
			CustomerPhone:   form.CustomerPhone,
			ShippingAddress: form.ShippingAddress,
			ShippingCity:    form.ShippingCity,
			ShippingZipCode: form.ShippingZipCode,
			ShippingCountry: form.ShippingCountry,
			Notes:           form.Notes,
		}
		for i := range items {
			order.OrderItems = append(order.OrderItems, model.OrderItem{
				ProductID: items[i].ProductID,
				Price:     locked[i].Price,
				Quantity:  items[i].Quantity,
			})
		}

		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		for i := range items {
			if err := s.productRepo.ReduceStock(tx, items[i].ProductID, items[i].Quantity); err != nil {
				return err
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		logger.Error("Order placement failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// Remember the shipping details for the next checkout.
	s.saveCheckoutDefaults(userID, form)

	logger.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.TotalPrice.String(),
		"items":    len(order.OrderItems),
	})
	return order, nil
}

// saveCheckoutDefaults copies the submitted form onto the user's
// profile so the next checkout can be prefilled. Best-effort: a
// failure here never fails the order.
func (s *orderService) saveCheckoutDefaults(userID uint, form *CheckoutForm) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return
	}
	user.Phone = form.CustomerPhone
	user.DefaultShippingAddress = form.ShippingAddress
	user.DefaultCity = form.ShippingCity
	user.DefaultZipCode = form.ShippingZipCode
	user.DefaultCountry = form.ShippingCountry
	if err := s.userRepo.Update(user); err != nil {
		logger.Warn("Failed to save checkout defaults", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func (s *orderService) GetUserOrders(userID uint, status model.OrderStatus) (*OrderHistory, error) {
	if status != "" && !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	orders, err := s.orderRepo.FindByUserID(userID, status)
	if err != nil {
		return nil, err
	}
	counts, err := s.orderRepo.CountByStatus(userID)
	if err != nil {
		return nil, err
	}
	return &OrderHistory{Orders: orders, StatusCounts: counts}, nil
}

func (s *orderService) GetOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus moves an order to a new status. Entering shipped
// assigns a tracking number if the order has none yet.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	if status == model.OrderStatusShipped && order.TrackingNumber == "" {
		tracking := util.GenerateTrackingNumber()
		if err := s.orderRepo.UpdateTrackingNumber(orderID, tracking); err != nil {
			return nil, err
		}
		order.TrackingNumber = tracking
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   string(status),
	})
	return order, nil
}

func (s *orderService) MarkPaid(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := s.orderRepo.UpdatePaid(orderID, true); err != nil {
		return nil, err
	}
	order.Paid = true
	return order, nil
}

// SetTracking overrides the tracking number, replacing the generated
// one when the carrier issues its own.
func (s *orderService) SetTracking(orderID uint, trackingNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := s.orderRepo.UpdateTrackingNumber(orderID, trackingNumber); err != nil {
		return nil, err
	}
	order.TrackingNumber = trackingNumber

	logger.Info("Order tracking number set", map[string]interface{}{
		"order_id": orderID,
		"tracking": trackingNumber,
	})
	return order, nil
}
