package catalog

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Unit, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Unit, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error)
	Save(ctx context.Context, unit *Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IsInUse reports whether any product binding references the unit
	IsInUse(ctx context.Context, id uuid.UUID) (bool, error)
}
