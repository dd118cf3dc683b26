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

type WishlistController struct {
	wishlistService service.WishlistService
}

func NewWishlistController(wishlistService service.WishlistService) *WishlistController {
	return &WishlistController{
		wishlistService: wishlistService,
	}
}

type AddToWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist returns the user's wishlist
// GET /api/v1/wishlist
func (ctrl *WishlistController) GetWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	items, err := ctrl.wishlistService.GetUserWishlist(userID)
	if err != nil {
		log.Error("Failed to fetch wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wishlist": items,
		"count":    len(items),
	})
}

// AddToWishlist adds a product; re-adding is a no-op
// POST /api/v1/wishlist
func (ctrl *WishlistController) AddToWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product is required")
		return
	}

	item, err := ctrl.wishlistService.AddToWishlist(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to add to wishlist", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "wishlist add")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Added to wishlist",
		"wishlist_item": item,
	})
}

// RemoveFromWishlist removes a product from the wishlist
// DELETE /api/v1/wishlist/:productId
func (ctrl *WishlistController) RemoveFromWishlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.wishlistService.RemoveFromWishlist(userID, uint(productID)); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			apperrors.NotFound(c, apperrors.WishlistItemNotFound, "Wishlist item not found")
			return
		}
		log.Error("Failed to remove from wishlist", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from wishlist",
	})
}
