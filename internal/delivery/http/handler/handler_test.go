package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/Pesokrava/reviews_app/internal/delivery/events"
	"github.com/Pesokrava/reviews_app/internal/domain"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	"github.com/Pesokrava/reviews_app/internal/repository/cache"
	"github.com/Pesokrava/reviews_app/internal/usecase/product"
	"github.com/Pesokrava/reviews_app/internal/usecase/review"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockReviewRepository is a mock implementation of domain.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	if args.Error(0) == nil {
		rv.ID = 1
	}
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, filter domain.ReviewFilter, page domain.PageRequest) ([]*domain.Review, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) Count(ctx context.Context, filter domain.ReviewFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	return m.Called(ctx, rv).Error(0)
}

func (m *MockReviewRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewRepository) SoftDeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// newTestRouter mounts the handlers on the same paths the API router uses
func newTestRouter(products *MockProductRepository, reviews *MockReviewRepository) http.Handler {
	log := logger.Nop()

	productHandler := NewProductHandler(product.NewService(products, log), log)
	reviewHandler := NewReviewHandler(
		review.NewService(reviews, products, cache.Noop{}, events.NoopPublisher{}, log),
		log,
	)

	r := chi.NewRouter()
	r.Get("/products", productHandler.List)
	r.Post("/products", productHandler.Create)
	r.Get("/products/{id}", productHandler.GetByID)
	r.Get("/reviews", reviewHandler.List)
	r.Post("/reviews", reviewHandler.Create)
	r.Delete("/reviews", reviewHandler.DeleteAll)
	r.Get("/reviews/{id}", reviewHandler.GetByID)
	r.Put("/reviews/{id}", reviewHandler.Update)
	r.Delete("/reviews/{id}", reviewHandler.Delete)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
