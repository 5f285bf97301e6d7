package sales

import (
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceUpdated       = "InvoiceUpdated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
	EventTypeInvoiceDeleted       = "InvoiceDeleted"
)

// InvoiceCreatedEvent is raised when an invoice is committed and stock deducted
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID        `json:"invoice_id"`
	InvoiceNumber string           `json:"invoice_number"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	Total         decimal.Decimal  `json:"total"`
	StockDeducted map[string]int64 `json:"stock_deducted"`
	Invoice       InvoiceSnapshot  `json:"invoice"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	deducted := make(map[string]int64)
	for id, qty := range inv.BaseUnitsByProduct() {
		deducted[id.String()] = qty
	}
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Total:           inv.Total,
		StockDeducted:   deducted,
		Invoice:         inv.Snapshot(),
	}
}

// Before returns nil: the invoice did not exist
func (e *InvoiceCreatedEvent) Before() any { return nil }

// After returns the created invoice
func (e *InvoiceCreatedEvent) After() any { return e.Invoice }

// InvoiceUpdatedEvent is raised when header fields of a pending invoice change
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	Previous InvoiceSnapshot `json:"before"`
	Current  InvoiceSnapshot `json:"after"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(before, after InvoiceSnapshot) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, AggregateTypeInvoice, after.ID),
		Previous:        before,
		Current:         after,
	}
}

func (e *InvoiceUpdatedEvent) Before() any { return e.Previous }
func (e *InvoiceUpdatedEvent) After() any  { return e.Current }

// InvoiceStatusChangedEvent is raised when an invoice is paid or cancelled
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	FromStatus InvoiceStatus   `json:"from_status"`
	ToStatus   InvoiceStatus   `json:"to_status"`
	Previous   InvoiceSnapshot `json:"before"`
	Current    InvoiceSnapshot `json:"after"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(from InvoiceStatus, before, after InvoiceSnapshot) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, after.ID),
		FromStatus:      from,
		ToStatus:        after.Status,
		Previous:        before,
		Current:         after,
	}
}

func (e *InvoiceStatusChangedEvent) Before() any { return e.Previous }
func (e *InvoiceStatusChangedEvent) After() any  { return e.Current }

// InvoiceDeletedEvent is raised when a pending invoice is removed and its
// stock restored
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	StockRestored map[string]int64 `json:"stock_restored"`
	Previous      InvoiceSnapshot  `json:"before"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(before InvoiceSnapshot) *InvoiceDeletedEvent {
	restored := make(map[string]int64)
	for _, l := range before.Lines {
		restored[l.ProductID.String()] += l.QuantityBaseUnit
	}
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, before.ID),
		StockRestored:   restored,
		Previous:        before,
	}
}

func (e *InvoiceDeletedEvent) Before() any { return e.Previous }

// After returns nil: the invoice no longer exists
func (e *InvoiceDeletedEvent) After() any { return nil }
