package sales

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus represents the status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusPending:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentMethod is how an invoice is settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCredit   PaymentMethod = "credit"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// ParsePaymentMethod parses a payment method, defaulting to cash when empty
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentMethodCash, nil
	}
	m := PaymentMethod(strings.ToLower(s))
	if !m.IsValid() {
		return "", shared.NewDomainError("INVALID_PAYMENT_METHOD",
			fmt.Sprintf("Payment method %q is not supported", s))
	}
	return m, nil
}

// InvoiceLine is a frozen line of an invoice. Prices and quantities are
// captured at creation and never re-read from the catalog.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber       int             `gorm:"not null"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	UnitID           *uuid.UUID      `gorm:"type:uuid"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	QuantityBaseUnit int64           `gorm:"not null"` // requested plus bonus units
	BonusBaseUnits   int64           `gorm:"not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_details"
}

// Invoice is the sales invoice aggregate root
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate       time.Time       `gorm:"not null;index"`
	Status            InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	TaxEnabled        bool            `gorm:"not null"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Tax               decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ManualDiscount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineDiscount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PromotionDiscount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null"`
	Notes             string          `gorm:"type:text"`
	AppliedPromotions datatypes.JSON
	Lines             []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoiceFromDraft creates a pending invoice from a priced draft
func NewInvoiceFromDraft(draft *pricing.InvoiceDraft, invoiceDate time.Time, method PaymentMethod, notes string) (*Invoice, error) {
	if draft == nil || len(draft.Lines) == 0 {
		return nil, shared.ErrEmptyInvoice
	}
	if draft.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not supported")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	promotions, err := json.Marshal(draft.Promotions)
	if err != nil {
		return nil, fmt.Errorf("encode applied promotions: %w", err)
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     draft.InvoiceNumber,
		CustomerID:        draft.CustomerID,
		InvoiceDate:       invoiceDate,
		Status:            InvoiceStatusPending,
		TaxEnabled:        draft.TaxEnabled,
		TaxRate:           draft.TaxRate,
		Subtotal:          draft.Subtotal,
		Tax:               draft.Tax,
		ManualDiscount:    draft.ManualDiscount,
		LineDiscount:      draft.LineDiscount,
		PromotionDiscount: draft.PromotionDiscount,
		Discount:          draft.Discount,
		Total:             draft.Total,
		PaymentMethod:     method,
		Notes:             notes,
		AppliedPromotions: datatypes.JSON(promotions),
	}

	inv.Lines = make([]InvoiceLine, len(draft.Lines))
	for i, l := range draft.Lines {
		inv.Lines[i] = InvoiceLine{
			BaseEntity:       shared.NewBaseEntity(),
			InvoiceID:        inv.ID,
			LineNumber:       i + 1,
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			UnitID:           l.UnitID,
			UnitPrice:        l.UnitPrice,
			Quantity:         l.Quantity,
			ConversionFactor: l.ConversionFactor,
			QuantityBaseUnit: l.QuantityBaseUnit,
			BonusBaseUnits:   l.BonusBaseUnits,
			Discount:         l.Discount,
			TaxAmount:        l.TaxAmount,
			Subtotal:         l.Subtotal,
		}
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// UpdateInput carries the mutable header fields of a pending invoice.
// Nil fields are left unchanged.
type UpdateInput struct {
	TaxEnabled     *bool
	ManualDiscount *decimal.Decimal
	PaymentMethod  *PaymentMethod
	Notes          *string
}

// Update changes the header of a pending invoice and recomputes its totals
// from the frozen lines
func (inv *Invoice) Update(in UpdateInput) error {
	if inv.Status != InvoiceStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot update invoice in %s status", inv.Status))
	}
	if in.ManualDiscount != nil && in.ManualDiscount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if in.PaymentMethod != nil && !in.PaymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not supported")
	}

	before := inv.Snapshot()

	taxEnabled := inv.TaxEnabled
	if in.TaxEnabled != nil {
		taxEnabled = *in.TaxEnabled
	}
	manual := inv.ManualDiscount
	if in.ManualDiscount != nil {
		manual = *in.ManualDiscount
	}
	inv.recalculate(taxEnabled, manual)

	if in.PaymentMethod != nil {
		inv.PaymentMethod = *in.PaymentMethod
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}

	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceUpdatedEvent(before, inv.Snapshot()))

	return nil
}

// recalculate reprices the frozen lines with the invoice's own tax rate.
// Promotion discounts were fixed at creation and are carried over.
func (inv *Invoice) recalculate(taxEnabled bool, manualDiscount decimal.Decimal) {
	amounts := make([]pricing.LineAmount, len(inv.Lines))
	for i, l := range inv.Lines {
		amounts[i] = pricing.LineAmount{UnitPrice: l.UnitPrice, Quantity: l.Quantity, Discount: l.Discount}
	}

	totals := pricing.ComputeTotals(amounts, manualDiscount, inv.PromotionDiscount, taxEnabled, inv.TaxRate)
	for i := range inv.Lines {
		inv.Lines[i].TaxAmount = totals.Lines[i].TaxAmount
		inv.Lines[i].Subtotal = totals.Lines[i].Subtotal
	}

	inv.TaxEnabled = taxEnabled
	inv.Subtotal = totals.Subtotal
	inv.Tax = totals.Tax
	inv.ManualDiscount = totals.ManualDiscount
	inv.LineDiscount = totals.LineDiscount
	inv.PromotionDiscount = totals.PromotionDiscount
	inv.Discount = totals.Discount
	inv.Total = totals.Total
}

// ChangeStatus moves a pending invoice to paid or cancelled. Neither
// transition touches stock.
func (inv *Invoice) ChangeStatus(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Status %q is not valid", target))
	}
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot change invoice status from %s to %s", inv.Status, target))
	}

	before := inv.Snapshot()
	from := inv.Status
	inv.Status = target
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(from, before, inv.Snapshot()))

	return nil
}

// MarkDeleted checks the invoice can be removed and records the deletion.
// The caller restores stock and removes the rows.
func (inv *Invoice) MarkDeleted() error {
	if inv.Status != InvoiceStatusPending {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Only pending invoices can be deleted, invoice is %s", inv.Status))
	}

	inv.AddDomainEvent(NewInvoiceDeletedEvent(inv.Snapshot()))
	return nil
}

// IsPending returns true if the invoice is still pending
func (inv *Invoice) IsPending() bool {
	return inv.Status == InvoiceStatusPending
}

// BaseUnitsByProduct sums the stock effect of the lines per product
func (inv *Invoice) BaseUnitsByProduct() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(inv.Lines))
	for _, l := range inv.Lines {
		out[l.ProductID] += l.QuantityBaseUnit
	}
	return out
}

// ProductIDs returns the distinct products on the invoice
func (inv *Invoice) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(inv.Lines))
	ids := make([]uuid.UUID, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

// Promotions decodes the applied promotion snapshot
func (inv *Invoice) Promotions() ([]pricing.PromotionResult, error) {
	if len(inv.AppliedPromotions) == 0 {
		return nil, nil
	}
	var out []pricing.PromotionResult
	if err := json.Unmarshal(inv.AppliedPromotions, &out); err != nil {
		return nil, fmt.Errorf("decode applied promotions: %w", err)
	}
	return out, nil
}

// LineSnapshot is the audited view of an invoice line
type LineSnapshot struct {
	ProductID        uuid.UUID       `json:"product_id"`
	UnitID           *uuid.UUID      `json:"unit_id,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	QuantityBaseUnit int64           `json:"quantity_base_unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// InvoiceSnapshot is the audited view of an invoice
type InvoiceSnapshot struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Status        InvoiceStatus   `json:"status"`
	TaxEnabled    bool            `json:"tax_enabled"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	Lines         []LineSnapshot  `json:"lines"`
}

// Snapshot captures the current state for auditing
func (inv *Invoice) Snapshot() InvoiceSnapshot {
	lines := make([]LineSnapshot, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = LineSnapshot{
			ProductID:        l.ProductID,
			UnitID:           l.UnitID,
			Quantity:         l.Quantity,
			QuantityBaseUnit: l.QuantityBaseUnit,
			UnitPrice:        l.UnitPrice,
			Subtotal:         l.Subtotal,
		}
	}
	return InvoiceSnapshot{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		Status:        inv.Status,
		TaxEnabled:    inv.TaxEnabled,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Discount:      inv.Discount,
		Total:         inv.Total,
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
		Lines:         lines,
	}
}
