package product

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Pesokrava/reviews_app/internal/domain"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	pkgvalidator "github.com/Pesokrava/reviews_app/internal/pkg/validator"
)

// Service handles product business logic
type Service struct {
	repo     domain.ProductRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new product service
func NewService(repo domain.ProductRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// createInput carries the fields a new product needs. Title is a pointer so
// an absent title is told apart from an empty one.
type createInput struct {
	Title *string `validate:"required"`
}

// Create stores a new product with the given title. A nil title is invalid,
// an empty one is stored as is.
func (s *Service) Create(ctx context.Context, title *string) (*domain.Product, error) {
	if err := s.validate.Struct(createInput{Title: title}); err != nil {
		s.logger.Warnf("Product validation failed: %v", err)
		return nil, domain.ErrInvalidInput
	}

	product := &domain.Product{Title: *title}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return nil, err
	}

	s.logger.WithFields(map[string]any{
		"product_id": product.ID,
		"title":      product.Title,
	}).Info("Product created successfully")

	return product, nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %d", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	return product, nil
}

// List retrieves every product
func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, err
	}

	return products, nil
}
