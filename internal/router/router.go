package router

import (
	"github.com/Nil9n/merchshop-backend/config"
	"github.com/Nil9n/merchshop-backend/internal/app/controller"
	"github.com/Nil9n/merchshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	reviewController   *controller.ReviewController
	wishlistController *controller.WishlistController
	locationController *controller.LocationController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	reviewController *controller.ReviewController,
	wishlistController *controller.WishlistController,
	locationController *controller.LocationController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		reviewController:   reviewController,
		wishlistController: wishlistController,
		locationController: locationController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MERCHSHOP API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/restore", r.authController.RestoreAccount)
			auth.GET("/profile", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/profile", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			auth.DELETE("/account", r.authMiddleware.Authenticate(), r.authController.DeleteAccount)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/reviews", r.reviewController.GetProductReviews)
			products.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)
		}

		v1.GET("/categories", r.productController.ListCategories)

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.PUT("/:id", r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.PlaceOrder)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(r.authMiddleware.Authenticate())
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.POST("", r.wishlistController.AddToWishlist)
			wishlist.DELETE("/:productId", r.wishlistController.RemoveFromWishlist)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("/cities", r.locationController.SuggestCities)
			locations.GET("/countries", r.locationController.SuggestCountries)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)
			admin.POST("/products/:id/restock", r.productController.Restock)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)
			admin.PUT("/orders/:id/paid", r.orderController.MarkPaid)
			admin.PUT("/orders/:id/tracking", r.orderController.SetTracking)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
