package domain

import "context"

// Product represents a product that reviews can be written for
type Product struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create inserts a product and fills in its storage-assigned ID
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id int64) (*Product, error)

	// List retrieves every product
	List(ctx context.Context) ([]*Product, error)

	// Exists reports whether a product with the given ID is stored
	Exists(ctx context.Context, id int64) (bool, error)
}
