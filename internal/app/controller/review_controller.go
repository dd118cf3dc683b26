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

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview adds a review to a product
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, uint(productID), req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrDuplicateReview):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "You have already reviewed this product")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created",
		"review":  review,
	})
}

// GetProductReviews lists a product's reviews with the average rating
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	reviews, average, err := ctrl.reviewService.GetProductReviews(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"count":          len(reviews),
		"average_rating": average,
	})
}

// UpdateReview edits the user's own review
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, uint(reviewID), req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		default:
			log.Error("Failed to update review", err, map[string]interface{}{
				"user_id":   userID,
				"review_id": reviewID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated",
		"review":  review,
	})
}

// DeleteReview removes a review; admins can remove any review
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, uint(reviewID), middleware.IsAdmin(c)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
			return
		}
		log.Error("Failed to delete review", err, map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}
