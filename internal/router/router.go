package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/model"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController     *controller.AuthController
	productController  *controller.ProductController
	variantController  *controller.VariantController
	reviewController   *controller.ReviewController
	cartController     *controller.CartController
	wishlistController *controller.WishlistController
	orderController    *controller.OrderController
	categoryController *controller.CategoryController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	variantController *controller.VariantController,
	reviewController *controller.ReviewController,
	cartController *controller.CartController,
	wishlistController *controller.WishlistController,
	orderController *controller.OrderController,
	categoryController *controller.CategoryController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		productController:  productController,
		variantController:  variantController,
		reviewController:   reviewController,
		cartController:     cartController,
		wishlistController: wishlistController,
		orderController:    orderController,
		categoryController: categoryController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	apperrors.RegisterJSONFieldNames()

	router := gin.New()
	// the whole image set of one product form is held in memory before upload
	router.MaxMultipartMemory = r.config.Upload.MaxFileSize * int64(r.config.Upload.MaxFiles)

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.NoRoute(apperrors.NoRoute)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticate := r.authMiddleware.Authenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh-token", r.authController.RefreshToken)
			auth.POST("/logout", authenticate, r.authController.Logout)
			auth.GET("/me", authenticate, r.authController.GetMe)
			auth.PUT("/me", authenticate, r.authController.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/filters", r.productController.GetFilters)
			products.GET("/export", authenticate, adminOnly, r.productController.ExportProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("", authenticate, adminOnly, r.productController.CreateProduct)
			products.PATCH("/:id", authenticate, adminOnly, r.productController.UpdateProduct)
			products.DELETE("/:id", authenticate, adminOnly, r.productController.DeleteProduct)

			variants := products.Group("/:id/variants")
			{
				variants.GET("", r.variantController.ListVariants)
				variants.POST("", authenticate, adminOnly, r.variantController.CreateVariant)
				variants.PATCH("/:variantId", authenticate, adminOnly, r.variantController.UpdateVariant)
				variants.DELETE("/:variantId", authenticate, adminOnly, r.variantController.DeleteVariant)
			}

			reviews := products.Group("/:id/reviews")
			{
				reviews.GET("", r.reviewController.ListReviews)
				reviews.POST("", authenticate, r.reviewController.CreateReview)
				reviews.PATCH("", authenticate, r.reviewController.UpdateReview)
				reviews.DELETE("", authenticate, r.reviewController.DeleteReview)
			}
		}

		cart := v1.Group("/cart")
		cart.Use(authenticate)
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PATCH("/item", r.cartController.UpdateCartItem)
			cart.DELETE("/item/:itemId", r.cartController.RemoveFromCart)
			cart.DELETE("/clear", r.cartController.ClearCart)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(authenticate)
		{
			wishlist.GET("", r.wishlistController.GetWishlist)
			wishlist.POST("/:productId", r.wishlistController.AddToWishlist)
			wishlist.DELETE("/:productId", r.wishlistController.RemoveFromWishlist)
		}

		orders := v1.Group("/orders")
		orders.Use(authenticate)
		{
			orders.GET("", r.orderController.ListOrders)
			orders.POST("/checkout", r.orderController.Checkout)
			orders.GET("/myOrders", r.orderController.GetMyOrder)
			orders.PATCH("/:id/payment-status", adminOnly, r.orderController.UpdatePaymentStatus)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.POST("", authenticate, adminOnly, r.categoryController.CreateCategory)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
