package repository

import (
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
	"gorm.io/gorm"
)

type LocationRepository interface {
	FindByPrefix(term string, isCountry bool, limit int) ([]model.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

// FindByPrefix does a case-insensitive prefix match on the name,
// restricted to country or non-country rows.
func (r *locationRepository) FindByPrefix(term string, isCountry bool, limit int) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Where("LOWER(name) LIKE LOWER(?) AND is_country = ?", term+"%", isCountry).
		Order("name ASC").
		Limit(limit).
		Find(&locations).Error
	if err != nil {
		logger.Error("Failed to find locations by prefix in database", err, map[string]interface{}{
			"term":       term,
			"is_country": isCountry,
		})
		return nil, err
	}
	return locations, nil
}
