package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/reviews_app/internal/config"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/handler"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/middleware"
	"github.com/Pesokrava/reviews_app/internal/delivery/http/response"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler *handler.ProductHandler
	reviewHandler  *handler.ReviewHandler
	registry       *prometheus.Registry
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router. HTTP collectors are registered on
// registry, which also backs /metrics.
func NewRouter(
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	registry *prometheus.Registry,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler: productHandler,
		reviewHandler:  reviewHandler,
		registry:       registry,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics(rt.registry)

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(metrics.Handler)
	r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"Location", "ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Deletes answer without a body, so Accept is not negotiated
	r.Delete("/reviews", rt.reviewHandler.DeleteAll)
	r.Delete("/reviews/{id}", rt.reviewHandler.Delete)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NegotiateJSON)
		jsonBody := r.With(chimw.AllowContentType("application/json"))

		r.Get("/products", rt.productHandler.List)
		jsonBody.Post("/products", rt.productHandler.Create)
		r.Get("/products/{id}", rt.productHandler.GetByID)

		r.Get("/reviews", rt.reviewHandler.List)
		jsonBody.Post("/reviews", rt.reviewHandler.Create)
		r.Get("/reviews/{id}", rt.reviewHandler.GetByID)
		jsonBody.Put("/reviews/{id}", rt.reviewHandler.Update)
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
