package repository

import (
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByProductID(productID uint) ([]model.Review, error)
	FindByProductAndUser(productID, userID uint) (*model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
	AverageRating(productID uint) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"product_id": review.ProductID,
		"user_id":    review.UserID,
		"rating":     review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
			"user_id":    review.UserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		logger.Error("Failed to find review by ID in database", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductID(productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by product ID in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByProductAndUser(productID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

// AverageRating is the mean rating over every review of the product,
// approved or not, and 0 when the product has no reviews.
func (r *reviewRepository) AverageRating(productID uint) (float64, error) {
	var result struct {
		Average float64
	}
	err := r.db.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		logger.Error("Failed to compute average rating in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return result.Average, nil
}
