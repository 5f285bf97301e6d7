package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type invoiceServiceFixture struct {
	service     *InvoiceService
	invoices    *MockInvoiceRepository
	customers   *MockCustomerRepository
	products    *MockProductRepository
	bindings    *MockBindingRepository
	promotions  *MockPromotionRepository
	fulfiller   *MockFulfiller
	idempotency *MockIdempotencyStore
	publisher   *recordingPublisher
	customer    *partner.Customer
}

func newInvoiceServiceFixture(t *testing.T) *invoiceServiceFixture {
	t.Helper()
	customer, err := partner.NewCustomer("Panadería Central", "0912345678", partner.ContactInfo{Email: "central@example.com"})
	require.NoError(t, err)

	f := &invoiceServiceFixture{
		invoices:    new(MockInvoiceRepository),
		customers:   new(MockCustomerRepository),
		products:    new(MockProductRepository),
		bindings:    new(MockBindingRepository),
		promotions:  new(MockPromotionRepository),
		fulfiller:   new(MockFulfiller),
		idempotency: new(MockIdempotencyStore),
		publisher:   &recordingPublisher{},
		customer:    customer,
	}
	assembler := pricing.NewInvoiceAssembler(nil, pricing.NewPromotionEngine(pricing.StackAll), dec("0.15"))
	f.service = NewInvoiceService(
		f.invoices,
		f.customers,
		CatalogReader{Products: f.products, Bindings: f.bindings, Promotions: f.promotions},
		f.fulfiller,
		assembler,
		f.publisher,
		InvoiceServiceOptions{Idempotency: f.idempotency, IdempotencyTTL: time.Hour},
		nil,
	)
	return f
}

func pendingInvoice(t *testing.T, customerID uuid.UUID) *sales.Invoice {
	t.Helper()
	productID := uuid.New()
	inv, err := sales.NewInvoiceFromDraft(&pricing.InvoiceDraft{
		CustomerID:    customerID,
		InvoiceNumber: "F-000001",
		TaxRate:       dec("0.15"),
		Lines: []pricing.DraftLine{{
			ProductID:        productID,
			ProductName:      "Pan de yema",
			UnitPrice:        dec("0.25"),
			Quantity:         dec("8"),
			ConversionFactor: dec("1"),
			QuantityBaseUnit: 8,
			Subtotal:         dec("2.00"),
		}},
		Subtotal: dec("2.00"),
		Total:    dec("2.00"),
	}, time.Now(), "", "")
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_QuoteAppliesPromotions(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	ctx := context.Background()

	product, err := catalog.NewProduct("CROISSANT", "Croissant", dec("2.00"))
	require.NoError(t, err)
	promo, err := catalog.NewPromotion(product.ID, "Lleva 6 paga 5", catalog.PromotionTerms{
		Type: catalog.PromotionBuyXGetY, BuyQuantity: 5, GetQuantity: 1,
	})
	require.NoError(t, err)

	f.customers.On("FindByID", mock.Anything, f.customer.ID).Return(f.customer, nil)
	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
	f.bindings.On("FindByProductIDs", mock.Anything, []uuid.UUID{product.ID}).
		Return(map[uuid.UUID][]catalog.ProductUnitBinding{}, nil)
	f.promotions.On("FindActiveByProductIDs", mock.Anything, []uuid.UUID{product.ID}).
		Return([]catalog.Promotion{*promo}, nil)

	noTax := false
	quote, err := f.service.Quote(ctx, CreateInvoiceRequest{
		CustomerID:    f.customer.ID,
		InvoiceNumber: "F-000010",
		TaxEnabled:    &noTax,
		Details: []InvoiceLineRequest{
			{ProductID: product.ID, Quantity: dec("12"), UnitPrice: ptr(dec("99.99"))},
		},
	})

	require.NoError(t, err)
	assert.True(t, dec("24.00").Equal(quote.Subtotal), "client unit price is ignored")
	assert.True(t, dec("4.00").Equal(quote.PromotionDiscount))
	assert.True(t, dec("20.00").Equal(quote.Total))
	require.Len(t, quote.Details, 1)
	assert.Equal(t, int64(14), quote.Details[0].QuantityBaseUnit)
	assert.Equal(t, int64(2), quote.Details[0].BonusBaseUnits)
	f.fulfiller.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestInvoiceService_QuoteUnknownCustomer(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	id := uuid.New()
	f.customers.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Quote(context.Background(), CreateInvoiceRequest{
		CustomerID: id,
		Details:    []InvoiceLineRequest{{ProductID: uuid.New(), Quantity: dec("1")}},
	})

	assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
}

func TestInvoiceService_Create(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	ctx := context.Background()
	created := pendingInvoice(t, f.customer.ID)

	f.idempotency.On("MarkProcessed", mock.Anything, "invoice:create:key-1", time.Hour).Return(true, nil)
	f.customers.On("FindByID", mock.Anything, f.customer.ID).Return(f.customer, nil)
	f.fulfiller.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(cmd CreateInvoiceCommand) bool {
		return cmd.Draft.InvoiceNumber == "F-000001" &&
			cmd.Draft.TaxEnabled &&
			cmd.PaymentMethod == sales.PaymentMethodCash &&
			cmd.Draft.ManualDiscount.Equal(dec("0.50"))
	})).Return(created, nil)

	resp, err := f.service.Create(ctx, CreateInvoiceRequest{
		CustomerID:    f.customer.ID,
		InvoiceNumber: " F-000001 ",
		Tax:           ptr(dec("0.30")),
		Discount:      ptr(dec("0.50")),
		Details:       []InvoiceLineRequest{{ProductID: created.Lines[0].ProductID, Quantity: dec("8")}},
	}, "key-1")

	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	require.NotNil(t, resp.Customer)
	assert.Equal(t, "Panadería Central", resp.Customer.Name)
	f.idempotency.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	f.fulfiller.AssertExpectations(t)
}

func TestInvoiceService_CreateRejectsReplayedKey(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	f.idempotency.On("MarkProcessed", mock.Anything, "invoice:create:key-1", time.Hour).Return(false, nil)

	_, err := f.service.Create(context.Background(), CreateInvoiceRequest{CustomerID: f.customer.ID}, "key-1")

	assert.ErrorIs(t, err, shared.ErrIdempotencyReplay)
	f.fulfiller.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateFailureReleasesKey(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	f.idempotency.On("MarkProcessed", mock.Anything, "invoice:create:key-2", time.Hour).Return(true, nil)
	f.idempotency.On("Release", mock.Anything, "invoice:create:key-2").Return(nil)
	f.customers.On("FindByID", mock.Anything, f.customer.ID).Return(f.customer, nil)
	stockErr := shared.NewInsufficientStockError(uuid.New(), "Torta", 5, 3)
	f.fulfiller.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, stockErr)

	_, err := f.service.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    f.customer.ID,
		InvoiceNumber: "F-000002",
		Details:       []InvoiceLineRequest{{ProductID: uuid.New(), Quantity: dec("5")}},
	}, "key-2")

	var insufficient *shared.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Shortfall())
	f.idempotency.AssertCalled(t, "Release", mock.Anything, "invoice:create:key-2")
}

func TestInvoiceService_CreateWithoutKeySkipsStore(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	f.customers.On("FindByID", mock.Anything, f.customer.ID).Return(f.customer, nil)
	f.fulfiller.On("CreateInvoice", mock.Anything, mock.Anything).Return(pendingInvoice(t, f.customer.ID), nil)

	_, err := f.service.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    f.customer.ID,
		InvoiceNumber: "F-000003",
		Details:       []InvoiceLineRequest{{ProductID: uuid.New(), Quantity: dec("1")}},
	}, "")

	require.NoError(t, err)
	f.idempotency.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateInvalidPaymentMethod(t *testing.T) {
	f := newInvoiceServiceFixture(t)

	_, err := f.service.Create(context.Background(), CreateInvoiceRequest{
		CustomerID:    f.customer.ID,
		PaymentMethod: "bitcoin",
	}, "")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
}

func TestInvoiceService_ChangeStatus(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	ctx := context.Background()
	inv := pendingInvoice(t, f.customer.ID)

	f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	f.invoices.On("Save", mock.Anything, inv).Return(nil)
	f.customers.On("FindByID", mock.Anything, f.customer.ID).Return(f.customer, nil)

	resp, err := f.service.ChangeStatus(ctx, inv.ID, ChangeStatusRequest{Status: "Paid"})

	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, []string{sales.EventTypeInvoiceStatusChanged}, f.publisher.types())
}

func TestInvoiceService_ChangeStatusRejectsUnknownStatus(t *testing.T) {
	f := newInvoiceServiceFixture(t)

	for _, status := range []string{"pending", "refunded", ""} {
		_, err := f.service.ChangeStatus(context.Background(), uuid.New(), ChangeStatusRequest{Status: status})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr, status)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	}
	f.invoices.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestInvoiceService_ChangeStatusFromTerminalState(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	inv := pendingInvoice(t, f.customer.ID)
	require.NoError(t, inv.ChangeStatus(sales.InvoiceStatusCancelled))
	f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)

	_, err := f.service.ChangeStatus(context.Background(), inv.ID, ChangeStatusRequest{Status: "paid"})

	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateRecomputesTotals(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	inv := pendingInvoice(t, f.customer.ID)
	f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	f.invoices.On("Save", mock.Anything, inv).Return(nil)
	f.customers.On("FindByID", mock.Anything, f.customer.ID).Return(f.customer, nil)

	taxOn := true
	card := "card"
	resp, err := f.service.Update(context.Background(), inv.ID, UpdateInvoiceRequest{
		TaxEnabled:    &taxOn,
		PaymentMethod: &card,
	})

	require.NoError(t, err)
	assert.True(t, dec("0.30").Equal(resp.Tax))
	assert.True(t, dec("2.30").Equal(resp.Total))
	assert.Equal(t, "card", resp.PaymentMethod)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, []string{sales.EventTypeInvoiceUpdated}, f.publisher.types())
}

func TestInvoiceService_UpdateSaveConflict(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	inv := pendingInvoice(t, f.customer.ID)
	f.invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
	f.invoices.On("Save", mock.Anything, inv).Return(shared.ErrConcurrencyConflict)

	notes := "entregar a las 7"
	_, err := f.service.Update(context.Background(), inv.ID, UpdateInvoiceRequest{Notes: &notes})

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Empty(t, f.publisher.types())
}

func TestInvoiceService_Delete(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	id := uuid.New()
	f.fulfiller.On("DeleteInvoice", mock.Anything, id).Return(nil, errors.New("db down"))

	err := f.service.Delete(context.Background(), id)

	assert.EqualError(t, err, "db down")
}

func TestInvoiceService_ResolveTaxEnabled(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name       string
		req        CreateInvoiceRequest
		defaultTax bool
		want       bool
	}{
		{"explicit flag wins over tax amount", CreateInvoiceRequest{TaxEnabled: &no, Tax: ptr(dec("1.00"))}, true, false},
		{"explicit flag on", CreateInvoiceRequest{TaxEnabled: &yes}, false, true},
		{"positive tax amount", CreateInvoiceRequest{Tax: ptr(dec("0.01"))}, false, true},
		{"zero tax amount", CreateInvoiceRequest{Tax: ptr(decimal.Zero)}, true, false},
		{"configured default", CreateInvoiceRequest{}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &InvoiceService{opts: InvoiceServiceOptions{TaxEnabledDefault: tt.defaultTax}}
			assert.Equal(t, tt.want, s.resolveTaxEnabled(tt.req))
		})
	}
}

func TestInvoiceService_ListAppliesDefaults(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	customerID := uuid.New()
	matches := mock.MatchedBy(func(filter sales.InvoiceFilter) bool {
		return filter.Page == 1 && filter.PageSize == 20 &&
			filter.OrderBy == "invoice_date" && filter.Status == sales.InvoiceStatusPending &&
			filter.CustomerID != nil && *filter.CustomerID == customerID
	})
	f.invoices.On("FindAll", mock.Anything, matches).Return([]sales.Invoice{*pendingInvoice(t, customerID)}, nil)
	f.invoices.On("Count", mock.Anything, matches).Return(int64(1), nil)
	customer := partner.Customer{Name: "Panadería Central"}
	customer.ID = customerID
	f.customers.On("FindByIDs", mock.Anything, []uuid.UUID{customerID}).Return([]partner.Customer{customer}, nil)

	rows, total, err := f.service.List(context.Background(), InvoiceListFilter{Status: "pending", CustomerID: &customerID})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "F-000001", rows[0].InvoiceNumber)
	assert.Equal(t, "Panadería Central", rows[0].CustomerName)
}

func TestInvoiceService_ListEmptyPageSkipsCustomers(t *testing.T) {
	f := newInvoiceServiceFixture(t)
	f.invoices.On("FindAll", mock.Anything, mock.Anything).Return([]sales.Invoice{}, nil)
	f.invoices.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	rows, _, err := f.service.List(context.Background(), InvoiceListFilter{})

	require.NoError(t, err)
	assert.Empty(t, rows)
	f.customers.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func ptr[T any](v T) *T { return &v }
