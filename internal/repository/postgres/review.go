package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/reviews_app/internal/domain"
)

const reviewColumns = `id, product_id, text, rating, is_deleted`

// ReviewRepository implements domain.ReviewRepository for PostgreSQL
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create creates a new review. The product reference is checked by the
// caller, the table has no foreign key.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, text, rating, is_deleted)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, is_deleted
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.ProductID,
		review.Text,
		review.Rating,
	).Scan(&review.ID, &review.IsDeleted)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by ID, including soft-deleted ones
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}

	return &review, nil
}

// filterClause renders the WHERE clause for filter. Placeholders start at $1.
func filterClause(filter domain.ReviewFilter) (string, []any) {
	if filter.ProductID == nil {
		return `WHERE is_deleted = $1`, []any{filter.ShowDeleted}
	}
	return `WHERE is_deleted = $1 AND product_id = $2`, []any{filter.ShowDeleted, *filter.ProductID}
}

// List retrieves one page of reviews, highest rating first
func (r *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter, page domain.PageRequest) ([]*domain.Review, error) {
	where, args := filterClause(filter)
	query := fmt.Sprintf(
		`SELECT %s FROM reviews %s ORDER BY rating DESC, id ASC LIMIT $%d OFFSET $%d`,
		reviewColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, page.Offset())

	reviews := []*domain.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

// Count returns the number of reviews matching filter
func (r *ReviewRepository) Count(ctx context.Context, filter domain.ReviewFilter) (int, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM reviews ` + where

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}

	return count, nil
}

// Update replaces product ID, text and rating. is_deleted is left alone.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET product_id = $1, text = $2, rating = $3
		WHERE id = $4
		RETURNING is_deleted
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		review.ProductID,
		review.Text,
		review.Rating,
		review.ID,
	).Scan(&review.IsDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update review %d: %w", review.ID, err)
	}

	return nil
}

// SoftDelete flags a review as deleted
func (r *ReviewRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE reviews SET is_deleted = TRUE WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("soft-delete review %d: %w", id, err)
	}

	return nil
}

// SoftDeleteAll flags every review as deleted
func (r *ReviewRepository) SoftDeleteAll(ctx context.Context) error {
	query := `UPDATE reviews SET is_deleted = TRUE`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("soft-delete all reviews: %w", err)
	}

	return nil
}
