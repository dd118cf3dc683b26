package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nil9n/merchshop-backend/config"
	"github.com/Nil9n/merchshop-backend/internal/app/controller"
	"github.com/Nil9n/merchshop-backend/internal/app/repository"
	"github.com/Nil9n/merchshop-backend/internal/app/service"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/Nil9n/merchshop-backend/internal/middleware"
	"github.com/Nil9n/merchshop-backend/internal/router"
	"github.com/Nil9n/merchshop-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MERCHSHOP Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())
	locationRepo := repository.NewLocationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	productService := service.NewProductService(productRepo, categoryRepo, reviewRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, cartRepo, productRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	locationService := service.NewLocationService(locationRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	reviewController := controller.NewReviewController(reviewService)
	wishlistController := controller.NewWishlistController(wishlistService)
	locationController := controller.NewLocationController(locationService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		reviewController,
		wishlistController,
		locationController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped")
}
