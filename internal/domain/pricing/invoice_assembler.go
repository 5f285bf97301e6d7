package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRequest is one requested line of a draft invoice
type LineRequest struct {
	ProductID uuid.UUID
	UnitID    *uuid.UUID
	Quantity  decimal.Decimal
	Discount  decimal.Decimal
}

// AssembleInput is the draft submitted for pricing
type AssembleInput struct {
	CustomerID     uuid.UUID
	InvoiceNumber  string
	Lines          []LineRequest
	ManualDiscount decimal.Decimal
	TaxEnabled     bool
}

// ReferenceData is the catalog state pricing is computed against
type ReferenceData struct {
	Products   map[uuid.UUID]*catalog.Product
	Bindings   map[uuid.UUID][]catalog.ProductUnitBinding
	Promotions []catalog.Promotion
}

// DraftLine is a priced invoice line
type DraftLine struct {
	ProductID          uuid.UUID
	ProductName        string
	UnitID             *uuid.UUID
	UnitPrice          decimal.Decimal
	Quantity           decimal.Decimal
	ConversionFactor   decimal.Decimal
	RequestedBaseUnits int64
	BonusBaseUnits     int64
	// QuantityBaseUnit is requested plus bonus units: what leaves stock
	QuantityBaseUnit int64
	Discount         decimal.Decimal
	TaxPerUnit       decimal.Decimal
	TaxAmount        decimal.Decimal
	Subtotal         decimal.Decimal
}

// InvoiceDraft is a fully priced invoice that has not been persisted
type InvoiceDraft struct {
	CustomerID        uuid.UUID
	InvoiceNumber     string
	TaxEnabled        bool
	TaxRate           decimal.Decimal
	Lines             []DraftLine
	Promotions        []PromotionResult
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	LineDiscount      decimal.Decimal
	ManualDiscount    decimal.Decimal
	PromotionDiscount decimal.Decimal
	Discount          decimal.Decimal
	Total             decimal.Decimal
}

// BaseUnitsByProduct sums QuantityBaseUnit per product. Assemble keeps every
// sum within catalog.MaxBaseQuantity.
func (d *InvoiceDraft) BaseUnitsByProduct() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(d.Lines))
	for _, l := range d.Lines {
		out[l.ProductID] += l.QuantityBaseUnit
	}
	return out
}

// ProductIDs returns the distinct products of the draft in line order
func (d *InvoiceDraft) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(d.Lines))
	ids := make([]uuid.UUID, 0, len(d.Lines))
	for _, l := range d.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

// InvoiceAssembler prices a draft invoice: unit resolution, promotions, tax
// and totals
type InvoiceAssembler struct {
	conversion *UnitConversionService
	promotions *PromotionEngine
	taxRate    decimal.Decimal
}

// NewInvoiceAssembler creates an assembler. taxRate is a fraction (0.15 for 15%).
func NewInvoiceAssembler(conversion *UnitConversionService, promotions *PromotionEngine, taxRate decimal.Decimal) *InvoiceAssembler {
	if conversion == nil {
		conversion = NewUnitConversionService()
	}
	if promotions == nil {
		promotions = NewPromotionEngine(StackAll)
	}
	return &InvoiceAssembler{
		conversion: conversion,
		promotions: promotions,
		taxRate:    taxRate,
	}
}

// TaxRate returns the configured tax rate
func (a *InvoiceAssembler) TaxRate() decimal.Decimal {
	return a.taxRate
}

// Assemble prices the draft against the reference data at the given instant
func (a *InvoiceAssembler) Assemble(in AssembleInput, ref ReferenceData, at time.Time) (*InvoiceDraft, error) {
	if len(in.Lines) == 0 {
		return nil, shared.ErrEmptyInvoice
	}
	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number is required")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if in.ManualDiscount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	lines := make([]DraftLine, len(in.Lines))
	groups := make(map[uuid.UUID][]int)
	order := make([]uuid.UUID, 0, len(in.Lines))

	for i, req := range in.Lines {
		product := ref.Products[req.ProductID]
		if product == nil || !product.Active {
			return nil, shared.NewDomainError(shared.CodeProductNotFound,
				fmt.Sprintf("Product %s not found", req.ProductID))
		}
		if req.Discount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_DISCOUNT",
				fmt.Sprintf("Line %d: discount cannot be negative", i+1))
		}

		resolved, err := a.conversion.ResolveLine(product, ref.Bindings[product.ID], req.UnitID, req.Quantity)
		if err != nil {
			return nil, err
		}

		lines[i] = DraftLine{
			ProductID:          product.ID,
			ProductName:        product.Name,
			UnitID:             resolved.UnitID,
			UnitPrice:          resolved.UnitPrice,
			Quantity:           req.Quantity,
			ConversionFactor:   resolved.ConversionFactor,
			RequestedBaseUnits: resolved.QuantityBaseUnit,
			QuantityBaseUnit:   resolved.QuantityBaseUnit,
			Discount:           req.Discount,
		}

		if _, ok := groups[product.ID]; !ok {
			order = append(order, product.ID)
		}
		groups[product.ID] = append(groups[product.ID], i)
	}

	effective := EffectivePromotions(ref.Promotions, at)
	results := make([]PromotionResult, 0, len(order))
	promotionDiscount := decimal.Zero

	for _, productID := range order {
		idx := groups[productID]
		quantities := make([]int64, len(idx))
		product := ref.Products[productID]
		var total int64
		for k, i := range idx {
			quantities[k] = lines[i].RequestedBaseUnits
			if lines[i].RequestedBaseUnits > catalog.MaxBaseQuantity-total {
				return nil, quantityLimitError(product, "more than "+fmt.Sprint(catalog.MaxBaseQuantity))
			}
			total += lines[i].RequestedBaseUnits
		}

		result := a.promotions.Evaluate(productID, total, product.BasePrice, effective)
		if result.IsEmpty() {
			continue
		}
		if result.BonusBaseUnits > catalog.MaxBaseQuantity-total {
			return nil, quantityLimitError(product, fmt.Sprint(total+result.BonusBaseUnits))
		}
		results = append(results, result)
		promotionDiscount = promotionDiscount.Add(result.DiscountAmount)

		shares := DistributeBonus(quantities, result.BonusBaseUnits)
		for k, i := range idx {
			lines[i].BonusBaseUnits = shares[k]
			lines[i].QuantityBaseUnit = lines[i].RequestedBaseUnits + shares[k]
		}
	}

	amounts := make([]LineAmount, len(lines))
	for i, l := range lines {
		amounts[i] = LineAmount{UnitPrice: l.UnitPrice, Quantity: l.Quantity, Discount: l.Discount}
	}
	totals := ComputeTotals(amounts, in.ManualDiscount, promotionDiscount, in.TaxEnabled, a.taxRate)
	if err := checkAmounts(lines, totals); err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].TaxPerUnit = totals.Lines[i].TaxPerUnit
		lines[i].TaxAmount = totals.Lines[i].TaxAmount
		lines[i].Subtotal = totals.Lines[i].Subtotal
	}

	return &InvoiceDraft{
		CustomerID:        in.CustomerID,
		InvoiceNumber:     number,
		TaxEnabled:        in.TaxEnabled,
		TaxRate:           a.taxRate,
		Lines:             lines,
		Promotions:        results,
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		LineDiscount:      totals.LineDiscount,
		ManualDiscount:    totals.ManualDiscount,
		PromotionDiscount: totals.PromotionDiscount,
		Discount:          totals.Discount,
		Total:             totals.Total,
	}, nil
}

// Upper bounds of the decimal(18,4) unit price and decimal(18,2) amount columns
var (
	maxUnitPrice = decimal.New(1, 14)
	maxAmount    = decimal.New(1, 16)
)

func checkAmounts(lines []DraftLine, totals Totals) error {
	for i, l := range lines {
		if l.UnitPrice.GreaterThanOrEqual(maxUnitPrice) {
			return shared.NewDomainError("AMOUNT_OUT_OF_RANGE",
				fmt.Sprintf("Line %d: unit price %s is out of range", i+1, l.UnitPrice.String()))
		}
		if totals.Lines[i].Subtotal.Abs().GreaterThanOrEqual(maxAmount) {
			return shared.NewDomainError("AMOUNT_OUT_OF_RANGE",
				fmt.Sprintf("Line %d: subtotal is out of range", i+1))
		}
	}
	for _, amount := range []decimal.Decimal{totals.Subtotal, totals.Tax, totals.Discount, totals.Total} {
		if amount.Abs().GreaterThanOrEqual(maxAmount) {
			return shared.NewDomainError("AMOUNT_OUT_OF_RANGE", "Invoice total is out of range")
		}
	}
	return nil
}
