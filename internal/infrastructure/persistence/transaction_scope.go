package persistence

import (
	"context"

	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	salesapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The transaction is rolled
// back if fn returns an error or panics.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos salesapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// ExecuteBindings runs fn with a binding repository bound to one transaction
func (s *GormTransactionScope) ExecuteBindings(ctx context.Context, fn func(bindings catalog.ProductUnitBindingRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormProductUnitRepository(tx))
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductUnitRepo() catalog.ProductUnitBindingRepository {
	return NewGormProductUnitRepository(r.tx)
}

func (r *gormTransactionalRepositories) PromotionRepo() catalog.PromotionRepository {
	return NewGormPromotionRepository(r.tx)
}

func (r *gormTransactionalRepositories) InvoiceRepo() sales.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductionRecordRepo() production.ProductionRecordRepository {
	return NewGormProductionRecordRepository(r.tx)
}

var _ salesapp.TransactionScope = (*GormTransactionScope)(nil)
var _ catalogapp.BindingTransactor = (*GormTransactionScope)(nil)
var _ salesapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
