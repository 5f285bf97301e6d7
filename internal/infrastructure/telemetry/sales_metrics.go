package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/production"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// LowStockCounter reports how many active products are at or below their
// minimum stock
type LowStockCounter interface {
	CountLowStock(ctx context.Context) (int64, error)
}

// SalesMetrics turns committed sales and production events into counters,
// and observes the low-stock product count on each collection.
type SalesMetrics struct {
	logger *zap.Logger

	invoicesCreated  metric.Int64Counter
	invoiceRevenue   metric.Float64Counter
	unitsSold        metric.Int64Counter
	invoicesDeleted  metric.Int64Counter
	statusChanges    metric.Int64Counter
	unitsProduced    metric.Int64Counter
	lowStockProducts metric.Int64ObservableGauge
	registration     metric.Registration
}

// NewSalesMetrics creates the instruments on meter. lowStock may be nil.
func NewSalesMetrics(meter metric.Meter, lowStock LowStockCounter, logger *zap.Logger) (*SalesMetrics, error) {
	if meter == nil {
		return nil, errors.New("sales metrics: meter cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SalesMetrics{logger: logger}

	var err error
	if m.invoicesCreated, err = meter.Int64Counter("pos_invoices_created_total",
		metric.WithDescription("Invoices committed"), metric.WithUnit("{invoices}")); err != nil {
		return nil, fmt.Errorf("create invoices counter: %w", err)
	}
	if m.invoiceRevenue, err = meter.Float64Counter("pos_invoice_revenue_total",
		metric.WithDescription("Sum of committed invoice totals"), metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("create revenue counter: %w", err)
	}
	if m.unitsSold, err = meter.Int64Counter("pos_stock_units_deducted_total",
		metric.WithDescription("Base units removed from stock by invoices, bonus included"), metric.WithUnit("{units}")); err != nil {
		return nil, fmt.Errorf("create units sold counter: %w", err)
	}
	if m.invoicesDeleted, err = meter.Int64Counter("pos_invoices_deleted_total",
		metric.WithDescription("Pending invoices deleted with stock restored"), metric.WithUnit("{invoices}")); err != nil {
		return nil, fmt.Errorf("create deleted counter: %w", err)
	}
	if m.statusChanges, err = meter.Int64Counter("pos_invoice_status_changes_total",
		metric.WithDescription("Invoice status transitions"), metric.WithUnit("{transitions}")); err != nil {
		return nil, fmt.Errorf("create status counter: %w", err)
	}
	if m.unitsProduced, err = meter.Int64Counter("pos_production_units_total",
		metric.WithDescription("Base units added to stock by completed production"), metric.WithUnit("{units}")); err != nil {
		return nil, fmt.Errorf("create production counter: %w", err)
	}

	if lowStock != nil {
		if m.lowStockProducts, err = meter.Int64ObservableGauge("pos_low_stock_products",
			metric.WithDescription("Active products at or below minimum stock"), metric.WithUnit("{products}")); err != nil {
			return nil, fmt.Errorf("create low stock gauge: %w", err)
		}
		m.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			n, err := lowStock.CountLowStock(ctx)
			if err != nil {
				m.logger.Warn("failed to count low stock products", zap.Error(err))
				return nil
			}
			o.ObserveInt64(m.lowStockProducts, n)
			return nil
		}, m.lowStockProducts)
		if err != nil {
			return nil, fmt.Errorf("register low stock callback: %w", err)
		}
	}

	return m, nil
}

// EventTypes lists the events this handler records
func (m *SalesMetrics) EventTypes() []string {
	return []string{
		sales.EventTypeInvoiceCreated,
		sales.EventTypeInvoiceDeleted,
		sales.EventTypeInvoiceStatusChanged,
		production.EventTypeProductionCompleted,
	}
}

// Handle records one event. Unknown events are ignored.
func (m *SalesMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.InvoiceCreatedEvent:
		method := metric.WithAttributes(AttrPaymentMethod.String(string(e.Invoice.PaymentMethod)))
		m.invoicesCreated.Add(ctx, 1, method)
		m.invoiceRevenue.Add(ctx, e.Total.InexactFloat64(), method)
		for productID, qty := range e.StockDeducted {
			m.unitsSold.Add(ctx, qty, metric.WithAttributes(AttrProductID.String(productID)))
		}
	case *sales.InvoiceDeletedEvent:
		m.invoicesDeleted.Add(ctx, 1)
	case *sales.InvoiceStatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(AttrInvoiceStatus.String(string(e.ToStatus))))
	case *production.ProductionCompletedEvent:
		m.unitsProduced.Add(ctx, e.Quantity, metric.WithAttributes(AttrProductID.String(e.ProductID.String())))
	}
	return nil
}

// Close unregisters the low-stock callback
func (m *SalesMetrics) Close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

var _ shared.EventHandler = (*SalesMetrics)(nil)
