package catalog

import (
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductUpdated       = "ProductUpdated"
	EventTypeProductStatusChanged = "ProductStatusChanged"
	EventTypeProductDeleted       = "ProductDeleted"
)

// ProductSnapshot is the audited view of a product. Stock is included so a
// trail entry shows what was on hand, although stock moves are audited
// through invoices and production.
type ProductSnapshot struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	Active      bool            `json:"active"`
	Version     int             `json:"version"`
}

func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Active:      p.Active,
		Version:     p.Version,
	}
}

type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Current ProductSnapshot `json:"after"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		Current:         p.Snapshot(),
	}
}

func (e *ProductCreatedEvent) Before() any { return nil }
func (e *ProductCreatedEvent) After() any  { return e.Current }

// ProductUpdatedEvent covers name, description, price and threshold edits
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Previous ProductSnapshot `json:"before"`
	Current  ProductSnapshot `json:"after"`
}

func NewProductUpdatedEvent(before, after ProductSnapshot) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, after.ID),
		Previous:        before,
		Current:         after,
	}
}

func (e *ProductUpdatedEvent) Before() any { return e.Previous }
func (e *ProductUpdatedEvent) After() any  { return e.Current }

type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	Previous ProductSnapshot `json:"before"`
	Current  ProductSnapshot `json:"after"`
}

func NewProductStatusChangedEvent(before, after ProductSnapshot) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, AggregateTypeProduct, after.ID),
		Previous:        before,
		Current:         after,
	}
}

func (e *ProductStatusChangedEvent) Before() any { return e.Previous }
func (e *ProductStatusChangedEvent) After() any  { return e.Current }

// ProductDeletedEvent is raised by the catalog service once the row is gone
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	Previous ProductSnapshot `json:"before"`
}

func NewProductDeletedEvent(before ProductSnapshot) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, before.ID),
		Previous:        before,
	}
}

func (e *ProductDeletedEvent) Before() any { return e.Previous }
func (e *ProductDeletedEvent) After() any  { return nil }

var (
	_ shared.SnapshotEvent = (*ProductCreatedEvent)(nil)
	_ shared.SnapshotEvent = (*ProductUpdatedEvent)(nil)
	_ shared.SnapshotEvent = (*ProductStatusChangedEvent)(nil)
	_ shared.SnapshotEvent = (*ProductDeletedEvent)(nil)
)
