package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Nil9n/merchshop-backend/internal/app/service"
	apperrors "github.com/Nil9n/merchshop-backend/internal/errors"
	"github.com/Nil9n/merchshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// respondInsufficientStock surfaces the product name and remaining
// stock so the client can say exactly what blocked the request.
func respondInsufficientStock(c *gin.Context, err error) bool {
	var stockErr *service.InsufficientStockError
	if !errors.As(err, &stockErr) {
		return false
	}
	c.JSON(http.StatusConflict, gin.H{
		"error":     apperrors.InsufficientStock,
		"message":   "Not enough stock for " + stockErr.ProductName,
		"product":   stockErr.ProductName,
		"available": stockErr.Available,
		"requested": stockErr.Requested,
	})
	return true
}

// GetCart returns the user's cart with the running total
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cart.Items,
		"count":      cart.ItemCount,
		"total":      cart.Total,
	})
}

// AddToCart adds a product to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product and quantity are required")
		return
	}

	item, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrOutOfStock):
			apperrors.Conflict(c, apperrors.ProductOutOfStock, "This product is out of stock")
		case respondInsufficientStock(c, err):
		default:
			log.Error("Failed to add to cart", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "cart add")
		}
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Added to cart",
		"cart_item": item,
	})
}

// UpdateCartItem changes a line's quantity; zero removes the line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid quantity")
		return
	}

	item, err := ctrl.cartService.UpdateCartItem(userID, uint(itemID), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case respondInsufficientStock(c, err):
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	if item == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Item removed from cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cart updated",
		"cart_item": item,
	})
}

// RemoveFromCart deletes a cart line
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, uint(itemID)); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
	})
}

// ClearCart empties the user's cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
