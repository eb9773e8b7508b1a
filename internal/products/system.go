package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/backoffice-labs/catalog/pkg/pagination"
)

// System defines the interface for product catalog operations.
type System interface {
	// List returns a paginated page of products matching the provided
	// filters, ordered newest first. An out-of-range page yields an
	// empty page, not an error.
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Product], error)

	// Find retrieves a product by its ID.
	Find(ctx context.Context, id uuid.UUID) (*Product, error)

	// Create validates the payload, stores the optional upload, and
	// inserts a new product. Returns *ValidationError on invalid input.
	Create(ctx context.Context, form ProductForm, upload *Upload) (*Product, error)

	// Update overwrites name, description, and price of an existing
	// product. When an upload is present the prior image blob is removed
	// and both image fields are replaced; otherwise they are untouched.
	Update(ctx context.Context, id uuid.UUID, form ProductForm, upload *Upload) (*Product, error)

	// Delete removes the product row and its image blob if present.
	Delete(ctx context.Context, id uuid.UUID) error
}
