package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/broker"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/router"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/pkg/logger"
	redisclient "github.com/ikkim/storefront-backend/pkg/redis"
	"github.com/ikkim/storefront-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Access token revocation needs Redis. Keep both as nil interfaces when it
	// is off so the services skip revocation instead of calling a nil client.
	var revoker service.TokenRevoker
	var blacklist middleware.TokenBlacklist
	if cfg.Redis.Enabled {
		client, err := redisclient.Init(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			tokens := redisclient.NewTokenBlacklist(client)
			revoker = tokens
			blacklist = tokens
			defer func() {
				if err := redisclient.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	var events broker.OrderEventPublisher = broker.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		events = broker.NewEventPublisher(producer)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("Failed to close Kafka producer", err)
			}
		}()
	} else {
		logger.Info("No Kafka brokers configured, order events are dropped")
	}

	media := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
		cfg.S3.Folder,
	)

	database := db.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewRefreshTokenRepository(database)
	productRepo := repository.NewProductRepository(database)
	variantRepo := repository.NewVariantRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	cartRepo := repository.NewCartRepository(database)
	wishlistRepo := repository.NewWishlistRepository(database)
	orderRepo := repository.NewOrderRepository(database)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenRepo, util.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessExpiry:  cfg.JWT.AccessTokenExpiry,
		RefreshExpiry: cfg.JWT.RefreshTokenExpiry,
	}, revoker)
	productService := service.NewProductService(productRepo, variantRepo, categoryRepo, media, service.UploadLimits{
		MaxFileSize: cfg.Upload.MaxFileSize,
		MaxFiles:    cfg.Upload.MaxFiles,
	}, database)
	variantService := service.NewVariantService(variantRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo, database)
	cartService := service.NewCartService(cartRepo, productRepo, variantRepo, database)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, events, database)
	categoryService := service.NewCategoryService(categoryRepo)

	r := router.NewRouter(
		controller.NewAuthController(authService, cfg.Cookie),
		controller.NewProductController(productService),
		controller.NewVariantController(variantService),
		controller.NewReviewController(reviewService),
		controller.NewCartController(cartService),
		controller.NewWishlistController(wishlistService),
		controller.NewOrderController(orderService),
		controller.NewCategoryController(categoryService),
		middleware.NewAuthMiddleware(cfg.JWT.AccessSecret, util.NewCookieCodec(cfg.Cookie.Secret, cfg.Cookie.MaxAge), blacklist, userRepo),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
