package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Pesokrava/reviews_app/internal/config"
	"github.com/Pesokrava/reviews_app/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/reviews_app/internal/delivery/http"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/handler"
	"github.com/Pesokrava/reviews_app/internal/pkg/cache"
	"github.com/Pesokrava/reviews_app/internal/pkg/database"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/reviews_app/internal/repository/cache"
	"github.com/Pesokrava/reviews_app/internal/repository/postgres"
	"github.com/Pesokrava/reviews_app/internal/usecase/product"
	"github.com/Pesokrava/reviews_app/internal/usecase/review"

	_ "github.com/Pesokrava/reviews_app/docs"
)

// @title Reviews API
// @version 1.0
// @description Products and their reviews over a JSON REST API.

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/reviews_app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Products
// @tag.description Product endpoints

// @tag.name Reviews
// @tag.description Review endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Reviews API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if cfg.Database.Migrate {
		if err := database.RunMigrations(cfg.GetMigrateURL()); err != nil {
			appLogger.Fatal("Failed to run database migrations", err)
		}
		appLogger.Info("Database migrations applied")
	}

	var pageCache review.PageCache = cacheRepo.Noop{}
	if cfg.Cache.Enabled {
		appLogger.Info("Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", err)
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis successfully")

		pageCache = cacheRepo.NewRedisCache(redisClient, cfg.Cache.ReviewsPageTTL)
	}

	var publisher review.EventPublisher = events.NoopPublisher{}
	if cfg.NATS.Enabled {
		appLogger.Info("Connecting to NATS...")
		natsPublisher, err := events.NewPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create NATS publisher", err)
		}
		defer natsPublisher.Close()

		publisher = natsPublisher
	}

	productRepo := postgres.NewProductRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	productService := product.NewService(productRepo, appLogger)
	reviewService := review.NewService(reviewRepo, productRepo, pageCache, publisher, appLogger)

	productHandler := handler.NewProductHandler(productService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, appLogger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := httpDelivery.NewRouter(productHandler, reviewHandler, registry, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
