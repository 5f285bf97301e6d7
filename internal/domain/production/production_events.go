package production

import (
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeProductionRecord = "ProductionRecord"

// Event type constants
const (
	EventTypeProductionStarted   = "ProductionStarted"
	EventTypeProductionCompleted = "ProductionCompleted"
	EventTypeProductionCancelled = "ProductionCancelled"
)

// ProductionStartedEvent is raised when a batch is registered
type ProductionStartedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
	Quantity    int64     `json:"quantity"`
}

// NewProductionStartedEvent creates a new ProductionStartedEvent
func NewProductionStartedEvent(r *ProductionRecord) *ProductionStartedEvent {
	return &ProductionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionStarted, AggregateTypeProductionRecord, r.ID),
		ProductID:       r.ProductID,
		BatchNumber:     r.BatchNumber,
		Quantity:        r.Quantity,
	}
}

// ProductionCompletedEvent is raised when a batch is completed and its
// quantity added to stock
type ProductionCompletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID      `json:"product_id"`
	Quantity  int64          `json:"quantity"`
	Previous  RecordSnapshot `json:"before"`
	Current   RecordSnapshot `json:"after"`
}

// NewProductionCompletedEvent creates a new ProductionCompletedEvent
func NewProductionCompletedEvent(before, after RecordSnapshot) *ProductionCompletedEvent {
	return &ProductionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionCompleted, AggregateTypeProductionRecord, after.ID),
		ProductID:       after.ProductID,
		Quantity:        after.Quantity,
		Previous:        before,
		Current:         after,
	}
}

func (e *ProductionCompletedEvent) Before() any { return e.Previous }
func (e *ProductionCompletedEvent) After() any  { return e.Current }

// ProductionCancelledEvent is raised when a batch is abandoned
type ProductionCancelledEvent struct {
	shared.BaseDomainEvent
	Previous RecordSnapshot `json:"before"`
	Current  RecordSnapshot `json:"after"`
}

// NewProductionCancelledEvent creates a new ProductionCancelledEvent
func NewProductionCancelledEvent(before, after RecordSnapshot) *ProductionCancelledEvent {
	return &ProductionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionCancelled, AggregateTypeProductionRecord, after.ID),
		Previous:        before,
		Current:         after,
	}
}

func (e *ProductionCancelledEvent) Before() any { return e.Previous }
func (e *ProductionCancelledEvent) After() any  { return e.Current }
