package production

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordFilter narrows production record listings
type RecordFilter struct {
	shared.Filter
	Status    RecordStatus
	ProductID *uuid.UUID
}

// ProductionRecordRepository defines the interface for production record persistence
type ProductionRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionRecord, error)

	// FindByIDForUpdate locks the record row until the surrounding
	// transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ProductionRecord, error)

	FindAll(ctx context.Context, filter RecordFilter) ([]ProductionRecord, error)
	Count(ctx context.Context, filter RecordFilter) (int64, error)
	ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error)
	Save(ctx context.Context, record *ProductionRecord) error
}
