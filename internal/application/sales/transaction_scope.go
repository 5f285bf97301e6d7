package sales

import (
	"context"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories that
// take part in stock movements. All repository operations run inside fn are
// committed or rolled back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories sharing one transaction.
//
// Products are the only rows whose stock changes. Bindings and promotions are
// read inside the transaction so pricing sees the same snapshot as the stock
// check.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	ProductUnitRepo() catalog.ProductUnitBindingRepository
	PromotionRepo() catalog.PromotionRepository
	InvoiceRepo() sales.InvoiceRepository
	ProductionRecordRepo() production.ProductionRecordRepository
}

// NoOpTransactionScope runs fn against plain repositories without a
// transaction. Used in tests.
type NoOpTransactionScope struct {
	productRepo   catalog.ProductRepository
	bindingRepo   catalog.ProductUnitBindingRepository
	promotionRepo catalog.PromotionRepository
	invoiceRepo   sales.InvoiceRepository
	recordRepo    production.ProductionRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	bindingRepo catalog.ProductUnitBindingRepository,
	promotionRepo catalog.PromotionRepository,
	invoiceRepo sales.InvoiceRepository,
	recordRepo production.ProductionRecordRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:   productRepo,
		bindingRepo:   bindingRepo,
		promotionRepo: promotionRepo,
		invoiceRepo:   invoiceRepo,
		recordRepo:    recordRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *NoOpTransactionScope) ProductUnitRepo() catalog.ProductUnitBindingRepository {
	return s.bindingRepo
}
func (s *NoOpTransactionScope) PromotionRepo() catalog.PromotionRepository { return s.promotionRepo }
func (s *NoOpTransactionScope) InvoiceRepo() sales.InvoiceRepository       { return s.invoiceRepo }
func (s *NoOpTransactionScope) ProductionRecordRepo() production.ProductionRecordRepository {
	return s.recordRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
