package catalog

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// PromotionRepository defines the interface for promotion persistence
type PromotionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Promotion, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindActiveByProductIDs returns active promotions of the given products.
	// The date window is checked by the caller at evaluation time.
	FindActiveByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]Promotion, error)
	Save(ctx context.Context, promotion *Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}
