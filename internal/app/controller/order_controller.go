package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/service"
	apperrors "github.com/Nil9n/merchshop-backend/internal/errors"
	"github.com/Nil9n/merchshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type SetTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

// PlaceOrder turns the cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var form service.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data")
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, &form)
	if err != nil {
		var formErr *service.CheckoutValidationError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Your cart is empty")
		case errors.As(err, &formErr):
			apperrors.RespondWithCheckoutError(c, formErr.Fields)
		case respondInsufficientStock(c, err):
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order create")
		}
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
		"total":    order.TotalPrice.String(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetOrders returns the user's order history with status counts
// GET /api/v1/orders?status=<status>
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	status := model.OrderStatus(c.Query("status"))

	history, err := ctrl.orderService.GetUserOrders(userID, status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
			return
		}
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":        history.Orders,
		"count":         len(history.Orders),
		"status_counts": history.StatusCounts,
	})
}

// GetOrder returns one of the user's orders with its items
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order to a new status (admin only)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(uint(orderID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
				"status":   req.Status,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

// MarkPaid marks an order as paid (admin only)
// PUT /api/v1/admin/orders/:id/paid
func (ctrl *OrderController) MarkPaid(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.MarkPaid(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to mark order paid", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as paid",
		"order":   order,
	})
}

// SetTracking sets or replaces an order's tracking number (admin only)
// PUT /api/v1/admin/orders/:id/tracking
func (ctrl *OrderController) SetTracking(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req SetTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Tracking number is required")
		return
	}

	order, err := ctrl.orderService.SetTracking(uint(orderID), req.TrackingNumber)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to set tracking number", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tracking number updated",
		"order":   order,
	})
}
