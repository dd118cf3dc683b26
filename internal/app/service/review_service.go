package service

import (
	"errors"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDuplicateReview = errors.New("user already reviewed this product")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound  = errors.New("review not found")
)

type ReviewService interface {
	CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error)
	GetProductReviews(productID uint) ([]model.Review, float64, error)
	UpdateReview(userID, reviewID uint, rating int, comment string) (*model.Review, error)
	DeleteReview(userID uint, reviewID uint, isAdmin bool) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview adds a review for a product. A user gets one review per
// product; a second attempt is rejected without touching the first.
func (s *reviewService) CreateReview(userID, productID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.reviewRepo.FindByProductAndUser(productID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateReview
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		Approved:  true,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})
	return review, nil
}

func (s *reviewService) GetProductReviews(productID uint) ([]model.Review, float64, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProductNotFound
		}
		return nil, 0, err
	}

	reviews, err := s.reviewRepo.FindByProductID(productID)
	if err != nil {
		return nil, 0, err
	}
	average, err := s.reviewRepo.AverageRating(productID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, average, nil
}

func (s *reviewService) UpdateReview(userID, reviewID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotFound
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review. Owners delete their own, admins any.
func (s *reviewService) DeleteReview(userID uint, reviewID uint, isAdmin bool) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if !isAdmin && review.UserID != userID {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(review.ID)
}
