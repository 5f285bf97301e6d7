package persistence

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("line_number ASC")
}

// FindByID finds an invoice with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &invoice, nil
}

// FindByIDForUpdate locks the invoice row and loads its lines
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Clauses(forUpdate).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("line_number ASC").
		Find(&invoice.Lines).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds an invoice by its number
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, number string) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("invoice_number = ?", number).
		First(&invoice).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &invoice, nil
}

// ExistsByInvoiceNumber checks if an invoice number is taken
func (r *GormInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sales.Invoice{}).
		Where("invoice_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds invoices matching the filter, without lines
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter sales.InvoiceFilter) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Invoice{}), filter)
	query = paginate(query, filter.Filter, invoiceSort)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter sales.InvoiceFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Invoice{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the invoice and its lines. A unique violation on the
// invoice number maps to DUPLICATE_INVOICE_NUMBER.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *sales.Invoice) error {
	err := r.db.WithContext(ctx).Create(invoice).Error
	return mapDuplicate(err, shared.CodeDuplicateInvoiceNumber, "Invoice number "+invoice.InvoiceNumber+" already exists")
}

// Save persists header totals and line amounts with an optimistic version check
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *sales.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
			Updates(map[string]any{
				"status":             invoice.Status,
				"tax_enabled":        invoice.TaxEnabled,
				"subtotal":           invoice.Subtotal,
				"tax":                invoice.Tax,
				"manual_discount":    invoice.ManualDiscount,
				"line_discount":      invoice.LineDiscount,
				"promotion_discount": invoice.PromotionDiscount,
				"discount":           invoice.Discount,
				"total":              invoice.Total,
				"payment_method":     invoice.PaymentMethod,
				"notes":              invoice.Notes,
				"version":            invoice.Version,
				"updated_at":         invoice.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for _, line := range invoice.Lines {
			if err := tx.Model(&sales.InvoiceLine{}).
				Where("id = ?", line.ID).
				Updates(map[string]any{
					"tax_amount": line.TaxAmount,
					"subtotal":   line.Subtotal,
					"updated_at": invoice.UpdatedAt,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an invoice and its lines
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&sales.InvoiceLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&sales.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter sales.InvoiceFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", likePattern(filter.Search))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		query = query.Where("invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("invoice_date <= ?", *filter.DateTo)
	}
	return query
}

var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)
