package domain

import "context"

const (
	// MinRating and MaxRating bound Review.Rating inclusively
	MinRating = 0
	MaxRating = 5

	// ReviewEventSubject is the NATS subject review changes are published on
	ReviewEventSubject = "reviews.events"
)

// Review represents a product review. Deleted reviews stay in storage with
// IsDeleted set.
type Review struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId" db:"product_id"`
	Text      string `json:"text" db:"text"`
	Rating    int    `json:"rating" db:"rating"`
	IsDeleted bool   `json:"isDeleted" db:"is_deleted"`
}

// ReviewFilter selects which reviews a listing returns. A nil ProductID
// means every product. ShowDeleted switches the listing to deleted reviews
// only, it does not merge the two sets.
type ReviewFilter struct {
	ProductID   *int64
	ShowDeleted bool
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create inserts a review and fills in its storage-assigned ID
	Create(ctx context.Context, review *Review) error

	// GetByID retrieves a review by ID, deleted or not
	GetByID(ctx context.Context, id int64) (*Review, error)

	// List retrieves one page of reviews matching filter, highest rating first
	List(ctx context.Context, filter ReviewFilter, page PageRequest) ([]*Review, error)

	// Count returns the number of reviews matching filter
	Count(ctx context.Context, filter ReviewFilter) (int, error)

	// Update replaces product ID, text and rating of an existing review
	Update(ctx context.Context, review *Review) error

	// SoftDelete marks a review deleted. Unknown IDs are not an error.
	SoftDelete(ctx context.Context, id int64) error

	// SoftDeleteAll marks every review deleted
	SoftDeleteAll(ctx context.Context) error
}
