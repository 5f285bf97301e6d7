package pricing

import (
	"fmt"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scales of the invoice_details columns. Prices and quantities are fixed to
// them before any amount is derived so a reloaded invoice reprices the same.
const (
	UnitPriceScale = 4
	QuantityScale  = 4
)

// ResolvedLine is a requested line normalized to the product's base unit
type ResolvedLine struct {
	UnitID           *uuid.UUID      // nil when sold in the product's implicit base unit
	UnitPrice        decimal.Decimal // price of one requested unit
	ConversionFactor decimal.Decimal // base units per requested unit
	QuantityBaseUnit int64
}

// UnitConversionService resolves requested units against a product's bindings
type UnitConversionService struct{}

// NewUnitConversionService creates a new unit conversion service
func NewUnitConversionService() *UnitConversionService {
	return &UnitConversionService{}
}

// ResolveLine computes the unit price and base quantity of a requested line.
//
// When unitID is nil the product's base-unit binding is used; a product with
// no bindings at all is sold in an implicit base unit priced at BasePrice.
// The resulting base quantity must be whole because stock is kept in whole
// base units.
func (s *UnitConversionService) ResolveLine(
	product *catalog.Product,
	bindings []catalog.ProductUnitBinding,
	unitID *uuid.UUID,
	quantity decimal.Decimal,
) (ResolvedLine, error) {
	if !quantity.IsPositive() {
		return ResolvedLine{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if !quantity.Equal(quantity.Round(QuantityScale)) {
		return ResolvedLine{}, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity %s has more than %d decimal places", quantity.String(), QuantityScale))
	}

	binding, err := s.findBinding(product, bindings, unitID)
	if err != nil {
		return ResolvedLine{}, err
	}

	if binding == nil {
		if !quantity.Equal(quantity.Truncate(0)) {
			return ResolvedLine{}, fractionalError(product, quantity)
		}
		if err := checkBaseQuantity(product, quantity); err != nil {
			return ResolvedLine{}, err
		}
		return ResolvedLine{
			UnitPrice:        product.BasePrice.Round(UnitPriceScale),
			ConversionFactor: decimal.NewFromInt(1),
			QuantityBaseUnit: quantity.IntPart(),
		}, nil
	}

	base := binding.ToBase(quantity)
	if err := checkBaseQuantity(product, base); err != nil {
		return ResolvedLine{}, err
	}
	if !base.Equal(base.Truncate(0)) {
		return ResolvedLine{}, fractionalError(product, base)
	}

	id := binding.UnitID
	return ResolvedLine{
		UnitID:           &id,
		UnitPrice:        binding.UnitPrice(product.BasePrice).Round(UnitPriceScale),
		ConversionFactor: binding.ConversionFactor(),
		QuantityBaseUnit: base.IntPart(),
	}, nil
}

// ToRequestedUnit converts base units back into the binding's unit
func (s *UnitConversionService) ToRequestedUnit(binding *catalog.ProductUnitBinding, baseQuantity int64) decimal.Decimal {
	if binding == nil {
		return decimal.NewFromInt(baseQuantity)
	}
	return binding.FromBase(decimal.NewFromInt(baseQuantity))
}

func (s *UnitConversionService) findBinding(
	product *catalog.Product,
	bindings []catalog.ProductUnitBinding,
	unitID *uuid.UUID,
) (*catalog.ProductUnitBinding, error) {
	if unitID == nil {
		for i := range bindings {
			if bindings[i].ProductID == product.ID && bindings[i].IsBaseUnit {
				return &bindings[i], nil
			}
		}
		return nil, nil
	}
	for i := range bindings {
		if bindings[i].ProductID == product.ID && bindings[i].UnitID == *unitID {
			return &bindings[i], nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeUnitNotConfigured,
		fmt.Sprintf("Unit %s is not configured for product %s", unitID, product.Name))
}

func fractionalError(product *catalog.Product, base decimal.Decimal) error {
	return shared.NewDomainError("FRACTIONAL_BASE_QUANTITY",
		fmt.Sprintf("Quantity for product %s resolves to %s base units; stock is kept in whole base units", product.Name, base.String()))
}

var maxBaseQuantity = decimal.NewFromInt(catalog.MaxBaseQuantity)

// checkBaseQuantity runs before IntPart so a huge request is refused rather
// than wrapped.
func checkBaseQuantity(product *catalog.Product, base decimal.Decimal) error {
	if base.GreaterThan(maxBaseQuantity) {
		return quantityLimitError(product, base.String())
	}
	return nil
}

func quantityLimitError(product *catalog.Product, base string) error {
	return shared.NewDomainError("INVALID_QUANTITY",
		fmt.Sprintf("Quantity for product %s resolves to %s base units; at most %d are allowed per invoice",
			product.Name, base, catalog.MaxBaseQuantity))
}
