package pricing

import (
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the tax rate used when none is configured
var DefaultTaxRate = decimal.RequireFromString("0.15")

// LineAmount is the price input of one invoice line
type LineAmount struct {
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
	Discount  decimal.Decimal
}

// LineTotals is the computed amounts of one invoice line
type LineTotals struct {
	TaxPerUnit   decimal.Decimal
	PriceWithTax decimal.Decimal
	TaxAmount    decimal.Decimal // rounded to currency places
	Subtotal     decimal.Decimal // rounded to currency places
}

// Totals holds the invoice-level amounts. Every stored amount is rounded to
// currency places, and Total is derived from the rounded components so that
// Total == round2(max(0, Subtotal + Tax - Discount)) holds on persisted values.
type Totals struct {
	Lines             []LineTotals
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	LineDiscount      decimal.Decimal
	ManualDiscount    decimal.Decimal
	PromotionDiscount decimal.Decimal
	Discount          decimal.Decimal
	Total             decimal.Decimal
}

// ComputeTotals applies tax and discounts to a set of lines.
//
//	price_with_tax = unit_price * (1 + rate)      when tax is enabled
//	line_subtotal  = max(0, price_with_tax * qty - line_discount)
//	subtotal       = Σ unit_price * qty
//	tax            = Σ tax_per_unit * qty
//	discount       = Σ line_discount + manual + promotion
//	total          = max(0, subtotal + tax - discount)
func ComputeTotals(lines []LineAmount, manualDiscount, promotionDiscount decimal.Decimal, taxEnabled bool, taxRate decimal.Decimal) Totals {
	t := Totals{Lines: make([]LineTotals, len(lines))}

	subtotal := decimal.Zero
	tax := decimal.Zero
	lineDiscount := decimal.Zero

	for i, l := range lines {
		taxPerUnit := decimal.Zero
		if taxEnabled {
			taxPerUnit = l.UnitPrice.Mul(taxRate)
		}
		priceWithTax := l.UnitPrice.Add(taxPerUnit)
		lineTax := taxPerUnit.Mul(l.Quantity)

		t.Lines[i] = LineTotals{
			TaxPerUnit:   taxPerUnit,
			PriceWithTax: priceWithTax,
			TaxAmount:    valueobject.RoundCurrency(lineTax),
			Subtotal:     valueobject.RoundCurrency(valueobject.NonNegative(priceWithTax.Mul(l.Quantity).Sub(l.Discount))),
		}

		subtotal = subtotal.Add(l.UnitPrice.Mul(l.Quantity))
		tax = tax.Add(lineTax)
		lineDiscount = lineDiscount.Add(l.Discount)
	}

	t.Subtotal = valueobject.RoundCurrency(subtotal)
	t.Tax = valueobject.RoundCurrency(tax)
	t.LineDiscount = valueobject.RoundCurrency(lineDiscount)
	t.ManualDiscount = valueobject.RoundCurrency(manualDiscount)
	t.PromotionDiscount = valueobject.RoundCurrency(promotionDiscount)
	t.Discount = t.LineDiscount.Add(t.ManualDiscount).Add(t.PromotionDiscount)
	t.Total = valueobject.RoundCurrency(valueobject.NonNegative(t.Subtotal.Add(t.Tax).Sub(t.Discount)))
	return t
}
