package sales

import (
	"context"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status     InvoiceStatus
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate finds an invoice with its lines and locks the
	// invoice row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber finds an invoice by its number
	FindByInvoiceNumber(ctx context.Context, number string) (*Invoice, error)

	// ExistsByInvoiceNumber checks if an invoice number is taken
	ExistsByInvoiceNumber(ctx context.Context, number string) (bool, error)

	// FindAll finds invoices matching the filter, without lines
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)

	// Create inserts an invoice and its lines
	Create(ctx context.Context, invoice *Invoice) error

	// Save persists header and line amounts. The stored version must equal
	// invoice.Version-1, otherwise ErrConcurrencyConflict is returned.
	Save(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}
