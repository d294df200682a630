package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/reviews_app/internal/domain"
	"github.com/Pesokrava/reviews_app/internal/pkg/logger"
	"github.com/Pesokrava/reviews_app/internal/pkg/validator"
)

// Event types published on the review subject
const (
	EventCreated    = "review.created"
	EventUpdated    = "review.updated"
	EventDeleted    = "review.deleted"
	EventDeletedAll = "review.deleted_all"

	publishTimeout = 5 * time.Second
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// PageCache caches review listing pages per generation. InvalidateReviewPages
// starts a new generation, pages stored under an older one are never served.
// GetReviewPage returns domain.ErrNotFound on a miss.
type PageCache interface {
	ReviewPageGeneration(ctx context.Context) (int64, error)
	GetReviewPage(ctx context.Context, generation int64, filter domain.ReviewFilter, page domain.PageRequest) (*domain.Page[*domain.Review], error)
	SetReviewPage(ctx context.Context, generation int64, filter domain.ReviewFilter, page domain.PageRequest, result *domain.Page[*domain.Review]) error
	InvalidateReviewPages(ctx context.Context) error
}

// ReviewEvent is the payload published for every review change
type ReviewEvent struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	ReviewID  *int64         `json:"review_id,omitempty"`
	ProductID *int64         `json:"product_id,omitempty"`
	Rating    *int           `json:"rating,omitempty"`
	Review    *domain.Review `json:"review,omitempty"`
}

// Service handles review business logic
type Service struct {
	repo      domain.ReviewRepository
	products  domain.ProductRepository
	cache     PageCache
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates a new review service
func NewService(
	repo domain.ReviewRepository,
	products domain.ProductRepository,
	cache PageCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

// List returns one page of reviews sorted by rating, highest first. A page
// without rows is reported as domain.ErrNotFound rather than an empty page.
func (s *Service) List(ctx context.Context, filter domain.ReviewFilter, page domain.PageRequest) (*domain.Page[*domain.Review], error) {
	if !page.Valid() {
		return nil, domain.ErrInvalidInput
	}

	log := s.listLogger(filter, page)

	// The generation is read before the rows so a concurrent write always
	// retires whatever this call stores.
	generation, err := s.cache.ReviewPageGeneration(ctx)
	useCache := err == nil
	if !useCache {
		log.Warnf("Failed to read review page generation, bypassing cache: %v", err)
	} else {
		cached, err := s.cache.GetReviewPage(ctx, generation, filter, page)
		if err == nil {
			log.Debug("Cache hit for review page")
			return cached, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warnf("Failed to read cached review page: %v", err)
		}
	}

	reviews, err := s.repo.List(ctx, filter, page)
	if err != nil {
		s.logger.Error("Failed to list reviews", err)
		return nil, err
	}

	if len(reviews) == 0 {
		log.Info("No review resources were found")
		return nil, domain.ErrNotFound
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count reviews", err)
		return nil, err
	}

	result := domain.NewPage(reviews, total, page)

	if useCache {
		if err := s.cache.SetReviewPage(ctx, generation, filter, page, &result); err != nil {
			log.Warnf("Failed to cache review page: %v", err)
		}
	}

	return &result, nil
}

func (s *Service) listLogger(filter domain.ReviewFilter, page domain.PageRequest) *logger.Logger {
	fields := map[string]any{
		"page":         page.Page,
		"size":         page.Size,
		"show_deleted": filter.ShowDeleted,
	}
	if filter.ProductID != nil {
		fields["product_id"] = *filter.ProductID
	}
	return s.logger.WithFields(fields)
}

// GetByID retrieves a review by ID whether or not it is deleted
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Review not found: %d", id)
		} else {
			s.logger.Error("Failed to get review", err)
		}
		return nil, err
	}

	return review, nil
}

// Create validates and stores a new review. The rating is checked before the
// product reference.
func (s *Service) Create(ctx context.Context, productID int64, text string, rating int) (*domain.Review, error) {
	if err := validator.Rating(rating); err != nil {
		s.logger.Warnf("Can not post review with an incorrect rating %d", rating)
		return nil, domain.ErrRejected
	}

	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: productID,
		Text:      text,
		Rating:    rating,
	}

	if err := s.retirePages(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review", err)
		return nil, err
	}

	s.afterWrite(ctx, EventCreated, review)

	s.logger.WithFields(map[string]any{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	}).Info("Review created successfully")

	return review, nil
}

// Update replaces product ID, text and rating of an existing review. The
// product reference is checked before the rating, the reverse of Create.
func (s *Service) Update(ctx context.Context, id, productID int64, text string, rating int) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Infof("Review %d not found for update", id)
		} else {
			s.logger.Error("Failed to get existing review", err)
		}
		return nil, err
	}

	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	if err := validator.Rating(rating); err != nil {
		s.logger.Warnf("Can not update review %d with an incorrect rating %d", id, rating)
		return nil, domain.ErrRejected
	}

	review.ProductID = productID
	review.Text = text
	review.Rating = rating

	if err := s.retirePages(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, review); err != nil {
		s.logger.Error("Failed to update review", err)
		return nil, err
	}

	s.afterWrite(ctx, EventUpdated, review)

	s.logger.WithFields(map[string]any{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	}).Info("Review updated successfully")

	return review, nil
}

// SoftDelete marks a review deleted. Unknown IDs succeed silently.
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	if err := s.retirePages(ctx); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("Failed to delete review", err)
		return err
	}

	s.invalidate(ctx)
	s.publishEvent(ReviewEvent{EventType: EventDeleted, ReviewID: &id})

	s.logger.With("review_id", id).Info("Review deleted successfully")
	return nil
}

// SoftDeleteAll marks every review deleted
func (s *Service) SoftDeleteAll(ctx context.Context) error {
	if err := s.retirePages(ctx); err != nil {
		return err
	}

	if err := s.repo.SoftDeleteAll(ctx); err != nil {
		s.logger.Error("Failed to delete all reviews", err)
		return err
	}

	s.invalidate(ctx)
	s.publishEvent(ReviewEvent{EventType: EventDeletedAll})

	s.logger.Info("All reviews deleted successfully")
	return nil
}

// requireProduct returns domain.ErrRejected when productID does not exist
func (s *Service) requireProduct(ctx context.Context, productID int64) error {
	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to check product existence", err)
		return err
	}
	if !exists {
		s.logger.Warnf("Review references non-existent product %d", productID)
		return domain.ErrRejected
	}
	return nil
}

func (s *Service) afterWrite(ctx context.Context, eventType string, review *domain.Review) {
	s.invalidate(ctx)

	snapshot := *review
	s.publishEvent(ReviewEvent{
		EventType: eventType,
		ReviewID:  &snapshot.ID,
		ProductID: &snapshot.ProductID,
		Rating:    &snapshot.Rating,
		Review:    &snapshot,
	})
}

// retirePages starts a new page generation before a write. A write that
// cannot retire the cached pages is not performed, those pages would keep
// listing the old rows until they expire.
func (s *Service) retirePages(ctx context.Context) error {
	if err := s.cache.InvalidateReviewPages(ctx); err != nil {
		s.logger.Error("Failed to invalidate review page cache", err)
		return fmt.Errorf("invalidate review page cache: %w", err)
	}
	return nil
}

// invalidate starts another generation once the write is stored, retiring
// pages filled from rows read between retirePages and the write.
func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateReviewPages(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate review page cache: %v", err)
	}
}

// publishEvent publishes a review event without blocking the caller
func (s *Service) publishEvent(event ReviewEvent) {
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal %s event", event.EventType)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, domain.ReviewEventSubject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish %s event", event.EventType)
		}
	}()
}
