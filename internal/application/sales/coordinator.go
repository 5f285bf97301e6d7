package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateInvoiceCommand is a draft invoice ready to be priced and committed
type CreateInvoiceCommand struct {
	Draft         pricing.AssembleInput
	InvoiceDate   time.Time
	PaymentMethod sales.PaymentMethod
	Notes         string
}

// StockFulfillmentCoordinator owns every operation that moves stock:
// invoice creation and deletion, and production completion. Each runs in a
// single transaction with the affected product rows locked in ascending id
// order. Domain events are published only after commit.
type StockFulfillmentCoordinator struct {
	scope     TransactionScope
	assembler *pricing.InvoiceAssembler
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockFulfillmentCoordinator creates a coordinator. publisher may be nil.
func NewStockFulfillmentCoordinator(
	scope TransactionScope,
	assembler *pricing.InvoiceAssembler,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *StockFulfillmentCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockFulfillmentCoordinator{
		scope:     scope,
		assembler: assembler,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateInvoice prices the draft against locked product rows, checks and
// deducts stock for every product (bonus units included) and inserts the
// invoice. Any failure leaves all stock untouched.
func (c *StockFulfillmentCoordinator) CreateInvoice(ctx context.Context, cmd CreateInvoiceCommand) (*sales.Invoice, error) {
	if len(cmd.Draft.Lines) == 0 {
		return nil, shared.ErrEmptyInvoice
	}

	var invoice *sales.Invoice
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.InvoiceRepo().ExistsByInvoiceNumber(ctx, cmd.Draft.InvoiceNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeDuplicateInvoiceNumber,
				fmt.Sprintf("Invoice number %s already exists", cmd.Draft.InvoiceNumber))
		}

		productIDs := requestedProductIDs(cmd.Draft.Lines)
		ref, products, err := c.loadReferenceData(ctx, repos, productIDs)
		if err != nil {
			return err
		}

		draft, err := c.assembler.Assemble(cmd.Draft, ref, c.now())
		if err != nil {
			return err
		}

		if err := c.deductStock(ctx, repos.ProductRepo(), products, draft.BaseUnitsByProduct()); err != nil {
			return err
		}

		inv, err := sales.NewInvoiceFromDraft(draft, cmd.InvoiceDate, cmd.PaymentMethod, cmd.Notes)
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.StringFixed(2)),
		zap.Int("lines", len(invoice.Lines)),
	)
	c.publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	return invoice, nil
}

// DeleteInvoice removes a pending invoice and restores the stock each line
// removed
func (c *StockFulfillmentCoordinator) DeleteInvoice(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var invoice *sales.Invoice
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := inv.MarkDeleted(); err != nil {
			return err
		}

		restore := inv.BaseUnitsByProduct()
		products, err := lockProducts(ctx, repos.ProductRepo(), sortedIDs(restore))
		if err != nil {
			return err
		}
		for _, productID := range sortedIDs(restore) {
			p, ok := products[productID]
			if !ok {
				// The product row is gone; nothing to restore into.
				c.logger.Warn("product missing while restoring invoice stock",
					zap.String("invoice_id", inv.ID.String()),
					zap.String("product_id", productID.String()),
				)
				continue
			}
			if err := p.RestoreStock(restore[productID]); err != nil {
				return err
			}
			if err := repos.ProductRepo().UpdateStock(ctx, p); err != nil {
				return err
			}
		}

		if err := repos.InvoiceRepo().Delete(ctx, inv.ID); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("invoice deleted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	c.publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()

	return invoice, nil
}

// CompleteProduction adds a batch's quantity to stock and marks it completed.
// The record row is locked first, so concurrent completions apply once.
func (c *StockFulfillmentCoordinator) CompleteProduction(ctx context.Context, id uuid.UUID) (*production.ProductionRecord, error) {
	var record *production.ProductionRecord
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ProductionRecordRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Complete(); err != nil {
			return err
		}

		products, err := lockProducts(ctx, repos.ProductRepo(), []uuid.UUID{r.ProductID})
		if err != nil {
			return err
		}
		p, ok := products[r.ProductID]
		if !ok {
			return shared.NewDomainError(shared.CodeProductNotFound,
				fmt.Sprintf("Product %s not found", r.ProductID))
		}
		if err := p.RestoreStock(r.Quantity); err != nil {
			return err
		}
		if err := repos.ProductRepo().UpdateStock(ctx, p); err != nil {
			return err
		}
		if err := repos.ProductionRecordRepo().Save(ctx, r); err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("production completed",
		zap.String("record_id", record.ID.String()),
		zap.String("product_id", record.ProductID.String()),
		zap.Int64("quantity", record.Quantity),
	)
	c.publish(ctx, record.GetDomainEvents()...)
	record.ClearDomainEvents()

	return record, nil
}

// CancelProduction abandons an in-process batch. It takes the same row lock
// as CompleteProduction so a batch is never both completed and cancelled.
func (c *StockFulfillmentCoordinator) CancelProduction(ctx context.Context, id uuid.UUID) (*production.ProductionRecord, error) {
	var record *production.ProductionRecord
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ProductionRecordRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Cancel(); err != nil {
			return err
		}
		if err := repos.ProductionRecordRepo().Save(ctx, r); err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("production cancelled", zap.String("record_id", record.ID.String()))
	c.publish(ctx, record.GetDomainEvents()...)
	record.ClearDomainEvents()

	return record, nil
}

func (c *StockFulfillmentCoordinator) loadReferenceData(
	ctx context.Context,
	repos TransactionalRepositories,
	productIDs []uuid.UUID,
) (pricing.ReferenceData, map[uuid.UUID]*catalog.Product, error) {
	products, err := lockProducts(ctx, repos.ProductRepo(), productIDs)
	if err != nil {
		return pricing.ReferenceData{}, nil, err
	}
	bindings, err := repos.ProductUnitRepo().FindByProductIDs(ctx, productIDs)
	if err != nil {
		return pricing.ReferenceData{}, nil, err
	}
	promotions, err := repos.PromotionRepo().FindActiveByProductIDs(ctx, productIDs)
	if err != nil {
		return pricing.ReferenceData{}, nil, err
	}
	return pricing.ReferenceData{
		Products:   products,
		Bindings:   bindings,
		Promotions: promotions,
	}, products, nil
}

// deductStock checks every product before touching any of them, so the
// reported shortfall is the first one in id order and no row is written on
// failure.
func (c *StockFulfillmentCoordinator) deductStock(
	ctx context.Context,
	repo catalog.ProductRepository,
	products map[uuid.UUID]*catalog.Product,
	required map[uuid.UUID]int64,
) error {
	ids := sortedIDs(required)
	for _, id := range ids {
		p := products[id]
		if !p.HasStock(required[id]) {
			return shared.NewInsufficientStockError(p.ID, p.Name, required[id], p.Stock)
		}
	}
	for _, id := range ids {
		p := products[id]
		if err := p.DeductStock(required[id]); err != nil {
			return err
		}
		if err := repo.UpdateStock(ctx, p); err != nil {
			return err
		}
		if p.IsLowStock() {
			c.logger.Warn("product stock at or below minimum",
				zap.String("product_id", p.ID.String()),
				zap.String("product_code", p.Code),
				zap.Int64("stock", p.Stock),
				zap.Int64("min_stock", p.MinStock),
			)
		}
	}
	return nil
}

func (c *StockFulfillmentCoordinator) publish(ctx context.Context, events ...shared.DomainEvent) {
	if c.publisher == nil || len(events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, events...); err != nil {
		c.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

func lockProducts(ctx context.Context, repo catalog.ProductRepository, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	rows, err := repo.FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*catalog.Product, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func requestedProductIDs(lines []pricing.LineRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	sortUUIDs(ids)
	return ids
}

func sortedIDs(m map[uuid.UUID]int64) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortUUIDs(ids)
	return ids
}

func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
