package valueobject

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of decimal places currency amounts are stored with
const CurrencyPlaces int32 = 2

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// RoundCurrency rounds an amount to CurrencyPlaces using round-half-up
// (ties go towards positive infinity).
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Shift(CurrencyPlaces).Add(half).Floor().Shift(-CurrencyPlaces)
}

// NonNegative clamps an amount at zero
func NonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Percentage returns amount * percent / 100
func Percentage(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// SumCurrency adds amounts without intermediate rounding
func SumCurrency(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
