package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceFulfiller commits the invoice transitions that move stock
type InvoiceFulfiller interface {
	CreateInvoice(ctx context.Context, cmd CreateInvoiceCommand) (*sales.Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) (*sales.Invoice, error)
}

// CatalogReader is the read-only catalog view used to quote drafts
type CatalogReader struct {
	Products   catalog.ProductRepository
	Bindings   catalog.ProductUnitBindingRepository
	Promotions catalog.PromotionRepository
}

// InvoiceServiceOptions holds the pricing and idempotency settings
type InvoiceServiceOptions struct {
	TaxEnabledDefault bool
	Idempotency       shared.IdempotencyStore
	IdempotencyTTL    time.Duration
}

// InvoiceService handles invoice use cases. Stock-moving operations are
// delegated to the fulfiller; header updates and status changes are applied
// here with optimistic locking.
type InvoiceService struct {
	invoiceRepo  sales.InvoiceRepository
	customerRepo partner.CustomerRepository
	catalog      CatalogReader
	fulfiller    InvoiceFulfiller
	assembler    *pricing.InvoiceAssembler
	publisher    shared.EventPublisher
	opts         InvoiceServiceOptions
	logger       *zap.Logger
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo sales.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	catalogReader CatalogReader,
	fulfiller InvoiceFulfiller,
	assembler *pricing.InvoiceAssembler,
	publisher shared.EventPublisher,
	opts InvoiceServiceOptions,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = 24 * time.Hour
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		catalog:      catalogReader,
		fulfiller:    fulfiller,
		assembler:    assembler,
		publisher:    publisher,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// Quote prices a draft exactly as Create would, without locking or
// persisting anything
func (s *InvoiceService) Quote(ctx context.Context, req CreateInvoiceRequest) (_ *QuoteResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Quote",
		telemetry.SpanAttrCustomerID, req.CustomerID,
		telemetry.SpanAttrLineCount, len(req.Details),
	)
	defer telemetry.EndSpan(span, &err)

	if _, err = s.findCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	input := s.toAssembleInput(req)
	if len(input.Lines) == 0 {
		return nil, shared.ErrEmptyInvoice
	}

	ref, err := s.loadReferenceData(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	draft, err := s.assembler.Assemble(input, ref, s.now())
	if err != nil {
		return nil, err
	}

	resp := ToQuoteResponse(draft)
	return &resp, nil
}

// Create prices and commits a draft invoice. A non-empty idempotencyKey is
// claimed before anything else; a key already claimed yields
// IDEMPOTENCY_REPLAY, and the key is released again when creation fails.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest, idempotencyKey string) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Create",
		telemetry.SpanAttrInvoiceNumber, req.InvoiceNumber,
		telemetry.SpanAttrCustomerID, req.CustomerID,
		telemetry.SpanAttrLineCount, len(req.Details),
	)
	defer telemetry.EndSpan(span, &err)

	release, err := s.claimIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	method, err := sales.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	customer, err := s.findCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	cmd := CreateInvoiceCommand{
		Draft:         s.toAssembleInput(req),
		PaymentMethod: method,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.InvoiceDate != nil {
		cmd.InvoiceDate = *req.InvoiceDate
	}

	var invoice *sales.Invoice
	telemetry.WithProfilingLabels(ctx, func(ctx context.Context) {
		invoice, err = s.fulfiller.CreateInvoice(ctx, cmd)
	}, "operation", "create_invoice")
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceID, invoice.ID)

	resp := ToInvoiceResponse(invoice, customer)
	return &resp, nil
}

// GetByID returns an invoice with its customer and lines
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	resp := ToInvoiceResponse(invoice, customer)
	return &resp, nil
}

// List returns invoices matching the filter and the total count
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "invoice_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := sales.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Status:     sales.InvoiceStatus(filter.Status),
		CustomerID: filter.CustomerID,
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	names, err := s.customerNames(ctx, invoices)
	if err != nil {
		return nil, 0, err
	}
	return ToInvoiceListResponses(invoices, names), total, nil
}

// customerNames loads the customers of one page in a single query
func (s *InvoiceService) customerNames(ctx context.Context, invoices []sales.Invoice) (map[uuid.UUID]string, error) {
	if len(invoices) == 0 {
		return nil, nil
	}
	seen := make(map[uuid.UUID]struct{}, len(invoices))
	ids := make([]uuid.UUID, 0, len(invoices))
	for _, inv := range invoices {
		if _, ok := seen[inv.CustomerID]; ok {
			continue
		}
		seen[inv.CustomerID] = struct{}{}
		ids = append(ids, inv.CustomerID)
	}
	customers, err := s.customerRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names, nil
}

// Update changes the header of a pending invoice and recomputes its totals
// from the frozen lines
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Update", telemetry.SpanAttrInvoiceID, id)
	defer telemetry.EndSpan(span, &err)

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in := sales.UpdateInput{
		TaxEnabled:     req.TaxEnabled,
		ManualDiscount: req.Discount,
		Notes:          req.Notes,
	}
	if req.PaymentMethod != nil {
		method, err := sales.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return nil, err
		}
		in.PaymentMethod = &method
	}
	if err := invoice.Update(in); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, invoice)

	return s.GetByID(ctx, id)
}

// ChangeStatus moves a pending invoice to paid or cancelled
func (s *InvoiceService) ChangeStatus(ctx context.Context, id uuid.UUID, req ChangeStatusRequest) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "ChangeStatus",
		telemetry.SpanAttrInvoiceID, id,
		"pos.target_status", req.Status,
	)
	defer telemetry.EndSpan(span, &err)

	target := sales.InvoiceStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if target != sales.InvoiceStatusPaid && target != sales.InvoiceStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Status must be paid or cancelled, got %q", req.Status))
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.ChangeStatus(target); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, invoice)

	s.logger.Info("invoice status changed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("status", string(invoice.Status)),
	)
	return s.GetByID(ctx, id)
}

// Delete removes a pending invoice and restores its stock
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "InvoiceService", "Delete", telemetry.SpanAttrInvoiceID, id)
	defer telemetry.EndSpan(span, &err)

	_, err = s.fulfiller.DeleteInvoice(ctx, id)
	return err
}

func (s *InvoiceService) toAssembleInput(req CreateInvoiceRequest) pricing.AssembleInput {
	lines := make([]pricing.LineRequest, len(req.Details))
	for i, d := range req.Details {
		lines[i] = pricing.LineRequest{
			ProductID: d.ProductID,
			UnitID:    d.UnitID,
			Quantity:  d.Quantity,
			Discount:  decimalOrZero(d.Discount),
		}
	}
	return pricing.AssembleInput{
		CustomerID:     req.CustomerID,
		InvoiceNumber:  strings.TrimSpace(req.InvoiceNumber),
		Lines:          lines,
		ManualDiscount: decimalOrZero(req.Discount),
		TaxEnabled:     s.resolveTaxEnabled(req),
	}
}

// resolveTaxEnabled: an explicit tax_enabled wins, then a positive advisory
// tax amount, then the configured default
func (s *InvoiceService) resolveTaxEnabled(req CreateInvoiceRequest) bool {
	if req.TaxEnabled != nil {
		return *req.TaxEnabled
	}
	if req.Tax != nil {
		return req.Tax.IsPositive()
	}
	return s.opts.TaxEnabledDefault
}

func (s *InvoiceService) findCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeCustomerNotFound,
				fmt.Sprintf("Customer %s not found", id))
		}
		return nil, err
	}
	return customer, nil
}

func (s *InvoiceService) loadReferenceData(ctx context.Context, lines []pricing.LineRequest) (pricing.ReferenceData, error) {
	ids := requestedProductIDs(lines)
	products, err := s.catalog.Products.FindByIDs(ctx, ids)
	if err != nil {
		return pricing.ReferenceData{}, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	bindings, err := s.catalog.Bindings.FindByProductIDs(ctx, ids)
	if err != nil {
		return pricing.ReferenceData{}, err
	}
	promotions, err := s.catalog.Promotions.FindActiveByProductIDs(ctx, ids)
	if err != nil {
		return pricing.ReferenceData{}, err
	}
	return pricing.ReferenceData{Products: byID, Bindings: bindings, Promotions: promotions}, nil
}

func (s *InvoiceService) claimIdempotencyKey(ctx context.Context, key string) (func(), error) {
	key = strings.TrimSpace(key)
	if key == "" || s.opts.Idempotency == nil {
		return func() {}, nil
	}
	storeKey := "invoice:create:" + key
	claimed, err := s.opts.Idempotency.MarkProcessed(ctx, storeKey, s.opts.IdempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if !claimed {
		return nil, shared.ErrIdempotencyReplay
	}
	return func() {
		// the request's context may already be cancelled
		if err := s.opts.Idempotency.Release(context.WithoutCancel(ctx), storeKey); err != nil {
			s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *InvoiceService) publish(ctx context.Context, invoice *sales.Invoice) {
	events := invoice.GetDomainEvents()
	invoice.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
