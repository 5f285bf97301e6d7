package catalog

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindByIDsForUpdate loads products with a row lock held until the
	// surrounding transaction ends. Rows are locked in ascending id order.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountLowStock counts active products at or below their minimum stock
	CountLowStock(ctx context.Context) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// UpdateStock persists only the stock and version columns
	UpdateStock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a product with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
