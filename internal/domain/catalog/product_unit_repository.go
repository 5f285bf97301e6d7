package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductUnitBindingRepository defines the interface for product unit bindings
type ProductUnitBindingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductUnitBinding, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]ProductUnitBinding, error)
	// FindByProductIDs returns bindings for several products keyed by product id
	FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]ProductUnitBinding, error)
	FindByProductAndUnit(ctx context.Context, productID, unitID uuid.UUID) (*ProductUnitBinding, error)
	Save(ctx context.Context, binding *ProductUnitBinding) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearBaseUnit clears is_base_unit on every binding of the product except keepID
	ClearBaseUnit(ctx context.Context, productID, keepID uuid.UUID) error
	// CountBaseUnits counts bindings of the product flagged as base unit
	CountBaseUnits(ctx context.Context, productID uuid.UUID) (int64, error)
}
