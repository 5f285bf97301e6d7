package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStoredInvoice(t *testing.T, db *gorm.DB, product *catalog.Product, number string, customerID uuid.UUID, date time.Time) *sales.Invoice {
	t.Helper()
	assembler := pricing.NewInvoiceAssembler(nil, nil, dec("0.15"))
	draft, err := assembler.Assemble(pricing.AssembleInput{
		CustomerID:    customerID,
		InvoiceNumber: number,
		TaxEnabled:    true,
		Lines: []pricing.LineRequest{
			{ProductID: product.ID, Quantity: dec("4")},
			{ProductID: product.ID, Quantity: dec("2"), Discount: dec("0.10")},
		},
	}, pricing.ReferenceData{Products: map[uuid.UUID]*catalog.Product{product.ID: product}}, date)
	require.NoError(t, err)

	inv, err := sales.NewInvoiceFromDraft(draft, date, sales.PaymentMethodCash, "")
	require.NoError(t, err)
	require.NoError(t, NewGormInvoiceRepository(db).Create(context.Background(), inv))
	return inv
}

func TestGormInvoiceRepository_Save(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "PAN", "0.50", 100)

	inv := newStoredInvoice(t, db, product, "F-100", uuid.New(), time.Now())

	t.Run("persists recalculated totals", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)

		off := false
		require.NoError(t, loaded.Update(sales.UpdateInput{TaxEnabled: &off}))
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.FindByInvoiceNumber(ctx, "F-100")
		require.NoError(t, err)
		assert.False(t, reloaded.TaxEnabled)
		assert.True(t, reloaded.Tax.IsZero())
		assert.True(t, reloaded.Total.Equal(loaded.Total))
		assert.Equal(t, loaded.Version, reloaded.Version)
		assert.True(t, reloaded.Lines[0].TaxAmount.IsZero())
	})

	t.Run("stale version is a concurrency conflict", func(t *testing.T) {
		first, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)

		notes := "first writer"
		require.NoError(t, first.Update(sales.UpdateInput{Notes: &notes}))
		require.NoError(t, repo.Save(ctx, first))

		notes = "second writer"
		require.NoError(t, second.Update(sales.UpdateInput{Notes: &notes}))
		assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)
	})

	t.Run("duplicate number on create", func(t *testing.T) {
		dup := *inv
		dup.ID = uuid.New()
		dup.Lines = nil
		err := repo.Create(ctx, &dup)
		assert.ErrorIs(t, err, shared.ErrDuplicateInvoiceNumber)
	})
}

func TestGormInvoiceRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	product := seedProduct(t, db, "PAN", "0.50", 100)

	customer := uuid.New()
	day := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	newStoredInvoice(t, db, product, "F-1", customer, day)
	newStoredInvoice(t, db, product, "F-2", customer, day.AddDate(0, 0, 5))
	paid := newStoredInvoice(t, db, product, "F-3", uuid.New(), day.AddDate(0, 0, 10))
	require.NoError(t, paid.ChangeStatus(sales.InvoiceStatusPaid))
	require.NoError(t, repo.Save(ctx, paid))

	tests := []struct {
		name   string
		filter sales.InvoiceFilter
		want   []string
	}{
		{
			name:   "all newest first",
			filter: sales.InvoiceFilter{Filter: shared.DefaultFilter()},
			want:   []string{"F-3", "F-2", "F-1"},
		},
		{
			name:   "by customer",
			filter: sales.InvoiceFilter{Filter: shared.DefaultFilter(), CustomerID: &customer},
			want:   []string{"F-2", "F-1"},
		},
		{
			name:   "by status",
			filter: sales.InvoiceFilter{Filter: shared.DefaultFilter(), Status: sales.InvoiceStatusPaid},
			want:   []string{"F-3"},
		},
		{
			name: "by date range",
			filter: func() sales.InvoiceFilter {
				from, to := day.AddDate(0, 0, 1), day.AddDate(0, 0, 6)
				return sales.InvoiceFilter{Filter: shared.DefaultFilter(), DateFrom: &from, DateTo: &to}
			}(),
			want: []string{"F-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.OrderBy = "invoice_date"
			invoices, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			numbers := make([]string, len(invoices))
			for i, inv := range invoices {
				numbers[i] = inv.InvoiceNumber
			}
			assert.Equal(t, tt.want, numbers)

			count, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), count)
		})
	}
}
