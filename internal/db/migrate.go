package db

import (
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.WishlistItem{},
		&model.Location{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	// Locations back the checkout autocomplete endpoints.
	if err := seedLocations(); err != nil {
		logger.Error("Failed to seed locations", err)
		return err
	}

	logger.Info("Initial data seeded")
	return nil
}

func seedLocations() error {
	var count int64
	if err := DB.Model(&model.Location{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Locations already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	countries := []string{
		"Austria", "Belgium", "Bulgaria", "Croatia", "Czech Republic",
		"Denmark", "Estonia", "Finland", "France", "Germany",
		"Greece", "Hungary", "Ireland", "Italy", "Latvia",
		"Lithuania", "Luxembourg", "Netherlands", "Norway", "Poland",
		"Portugal", "Romania", "Slovakia", "Slovenia", "Spain",
		"Sweden", "Switzerland", "United Kingdom", "United States",
	}
	cities := []string{
		"Amsterdam", "Athens", "Barcelona", "Berlin", "Bratislava",
		"Brussels", "Bucharest", "Budapest", "Copenhagen", "Dublin",
		"Hamburg", "Helsinki", "Krakow", "Lisbon", "London",
		"Madrid", "Milan", "Munich", "Oslo", "Paris",
		"Prague", "Riga", "Rome", "Sofia", "Stockholm",
		"Tallinn", "Vienna", "Vilnius", "Warsaw", "Zagreb",
	}

	locations := make([]model.Location, 0, len(countries)+len(cities))
	for _, name := range countries {
		locations = append(locations, model.Location{Name: name, IsCountry: true})
	}
	for _, name := range cities {
		locations = append(locations, model.Location{Name: name, IsCountry: false})
	}

	if err := DB.CreateInBatches(locations, 50).Error; err != nil {
		return err
	}

	logger.Info("Locations seeded", map[string]interface{}{
		"countries": len(countries),
		"cities":    len(cities),
	})
	return nil
}
