package persistence

import (
	"context"
	"testing"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema. A
// single connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&catalog.Unit{},
		&catalog.Product{},
		&catalog.ProductUnitBinding{},
		&catalog.Promotion{},
		&partner.Customer{},
		&sales.Invoice{},
		&sales.InvoiceLine{},
		&production.ProductionRecord{},
	))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProduct(t *testing.T, db *gorm.DB, code, price string, stock int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Product "+code, dec(price))
	require.NoError(t, err)
	p.Stock = stock
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedBinding(t *testing.T, db *gorm.DB, productID uuid.UUID, qty string, base bool) *catalog.ProductUnitBinding {
	t.Helper()
	var (
		b   *catalog.ProductUnitBinding
		err error
	)
	if base {
		b, err = catalog.NewBaseUnitBinding(productID, uuid.New())
	} else {
		b, err = catalog.NewProductUnitBinding(productID, uuid.New(), dec(qty))
	}
	require.NoError(t, err)
	require.NoError(t, NewGormProductUnitRepository(db).Save(context.Background(), b))
	return b
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int64 {
	t.Helper()
	p, err := NewGormProductRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}
