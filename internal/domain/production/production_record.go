package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordStatus represents the status of a production batch
type RecordStatus string

const (
	RecordStatusInProcess RecordStatus = "in_process"
	RecordStatusCompleted RecordStatus = "completed"
	RecordStatusCancelled RecordStatus = "cancelled"
)

// IsValid checks if the status is known
func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusInProcess, RecordStatusCompleted, RecordStatusCancelled:
		return true
	}
	return false
}

// ProductionRecord is a batch of a product being baked. Completing it adds
// Quantity base units to the product's stock, exactly once.
type ProductionRecord struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	BatchNumber string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Quantity    int64        `gorm:"not null"`
	Status      RecordStatus `gorm:"type:varchar(20);not null;index"`
	Notes       string       `gorm:"type:text"`
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (ProductionRecord) TableName() string {
	return "production_records"
}

// NewProductionRecord starts a production batch
func NewProductionRecord(productID uuid.UUID, batchNumber string, quantity int64, notes string) (*ProductionRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number is required")
	}
	if len(batchNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot exceed 50 characters")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > catalog.MaxBaseQuantity {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity cannot exceed %d per batch", catalog.MaxBaseQuantity))
	}

	r := &ProductionRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BatchNumber:       batchNumber,
		Quantity:          quantity,
		Status:            RecordStatusInProcess,
		Notes:             notes,
	}
	r.AddDomainEvent(NewProductionStartedEvent(r))
	return r, nil
}

// Complete marks the batch as completed. A record that is not in process
// cannot be completed again.
func (r *ProductionRecord) Complete() error {
	if r.Status != RecordStatusInProcess {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot complete production record in %s status", r.Status))
	}

	before := r.Snapshot()
	now := time.Now()
	r.Status = RecordStatusCompleted
	r.CompletedAt = &now
	r.IncrementVersion()

	r.AddDomainEvent(NewProductionCompletedEvent(before, r.Snapshot()))
	return nil
}

// Cancel abandons an in-process batch. Stock is not affected.
func (r *ProductionRecord) Cancel() error {
	if r.Status != RecordStatusInProcess {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel production record in %s status", r.Status))
	}

	before := r.Snapshot()
	now := time.Now()
	r.Status = RecordStatusCancelled
	r.CancelledAt = &now
	r.IncrementVersion()

	r.AddDomainEvent(NewProductionCancelledEvent(before, r.Snapshot()))
	return nil
}

// RecordSnapshot is the audited view of a production record
type RecordSnapshot struct {
	ID          uuid.UUID    `json:"id"`
	ProductID   uuid.UUID    `json:"product_id"`
	BatchNumber string       `json:"batch_number"`
	Quantity    int64        `json:"quantity"`
	Status      RecordStatus `json:"status"`
}

// Snapshot captures the current state for auditing
func (r *ProductionRecord) Snapshot() RecordSnapshot {
	return RecordSnapshot{
		ID:          r.ID,
		ProductID:   r.ProductID,
		BatchNumber: r.BatchNumber,
		Quantity:    r.Quantity,
		Status:      r.Status,
	}
}
