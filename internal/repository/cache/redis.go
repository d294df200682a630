package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/reviews_app/internal/domain"
)

// reviewPagesGeneration is bumped on every review write. Page keys embed the
// generation they were read under, so a page filled from rows read before a
// write lands under a generation no reader asks for again.
const reviewPagesGeneration = "reviews:cache_gen"

// RedisCache caches review listing pages
type RedisCache struct {
	client         *redis.Client
	reviewsPageTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, reviewsPageTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		reviewsPageTTL: reviewsPageTTL,
	}
}

// ReviewPageKey returns the cache key of one listing page within a generation
func ReviewPageKey(generation int64, filter domain.ReviewFilter, page domain.PageRequest) string {
	product := "all"
	if filter.ProductID != nil {
		product = strconv.FormatInt(*filter.ProductID, 10)
	}
	return fmt.Sprintf(
		"reviews:gen:%d:product:%s:deleted:%t:page:%d:size:%d",
		generation, product, filter.ShowDeleted, page.Page, page.Size,
	)
}

// ReviewPageGeneration returns the current page generation, 0 before the
// first write
func (c *RedisCache) ReviewPageGeneration(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, reviewPagesGeneration).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return generation, nil
}

// GetReviewPage returns a cached page or domain.ErrNotFound on a miss
func (c *RedisCache) GetReviewPage(ctx context.Context, generation int64, filter domain.ReviewFilter, page domain.PageRequest) (*domain.Page[*domain.Review], error) {
	val, err := c.client.Get(ctx, ReviewPageKey(generation, filter, page)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var cached domain.Page[*domain.Review]
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, fmt.Errorf("decode cached review page: %w", err)
	}

	return &cached, nil
}

// SetReviewPage stores a page under the generation it was read in. Pages of
// older generations are never read again and expire with their TTL.
func (c *RedisCache) SetReviewPage(ctx context.Context, generation int64, filter domain.ReviewFilter, page domain.PageRequest, result *domain.Page[*domain.Review]) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, ReviewPageKey(generation, filter, page), data, c.reviewsPageTTL).Err()
}

// InvalidateReviewPages retires every cached review page by moving to a new
// generation
func (c *RedisCache) InvalidateReviewPages(ctx context.Context) error {
	return c.client.Incr(ctx, reviewPagesGeneration).Err()
}

// Noop is used when caching is disabled. Every lookup misses.
type Noop struct{}

// ReviewPageGeneration is always 0
func (Noop) ReviewPageGeneration(context.Context) (int64, error) {
	return 0, nil
}

// GetReviewPage always misses
func (Noop) GetReviewPage(context.Context, int64, domain.ReviewFilter, domain.PageRequest) (*domain.Page[*domain.Review], error) {
	return nil, domain.ErrNotFound
}

// SetReviewPage discards the page
func (Noop) SetReviewPage(context.Context, int64, domain.ReviewFilter, domain.PageRequest, *domain.Page[*domain.Review]) error {
	return nil
}

// InvalidateReviewPages has nothing to drop
func (Noop) InvalidateReviewPages(context.Context) error {
	return nil
}
