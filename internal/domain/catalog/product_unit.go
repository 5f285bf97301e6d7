package catalog

import (
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductUnitBinding links a product to a unit it can be sold or bought in.
// QuantityPerUnit is how many base units one of this unit represents
// (1 box = 12 pieces).
type ProductUnitBinding struct {
	shared.BaseEntity
	ProductID       uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_unit,priority:1"`
	UnitID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_product_unit,priority:2"`
	QuantityPerUnit decimal.Decimal  `gorm:"column:quantity;type:decimal(18,6);not null"`
	PriceOverride   *decimal.Decimal `gorm:"column:price_modifier;type:decimal(18,2)"`
	IsBaseUnit      bool             `gorm:"not null"`
	IsSalesUnit     bool             `gorm:"not null"`
	IsPurchaseUnit  bool             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductUnitBinding) TableName() string {
	return "product_units"
}

// NewProductUnitBinding creates a binding between a product and a unit
func NewProductUnitBinding(productID, unitID uuid.UUID, quantityPerUnit decimal.Decimal) (*ProductUnitBinding, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit ID is required")
	}
	if err := validateQuantityPerUnit(quantityPerUnit); err != nil {
		return nil, err
	}

	return &ProductUnitBinding{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		UnitID:          unitID,
		QuantityPerUnit: quantityPerUnit,
		IsSalesUnit:     true,
	}, nil
}

// NewBaseUnitBinding creates the base-unit binding of a product
func NewBaseUnitBinding(productID, unitID uuid.UUID) (*ProductUnitBinding, error) {
	b, err := NewProductUnitBinding(productID, unitID, decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	b.IsBaseUnit = true
	b.IsPurchaseUnit = true
	return b, nil
}

// Update changes the quantity per unit. The base binding always stays at 1.
func (b *ProductUnitBinding) Update(quantityPerUnit decimal.Decimal) error {
	if err := validateQuantityPerUnit(quantityPerUnit); err != nil {
		return err
	}
	if b.IsBaseUnit && !quantityPerUnit.Equal(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_BASE_UNIT", "Base unit must represent exactly one base unit")
	}
	b.QuantityPerUnit = quantityPerUnit
	b.Touch()
	return nil
}

// SetPriceOverride sets or clears the fixed price for one of this unit
func (b *ProductUnitBinding) SetPriceOverride(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price override cannot be negative")
	}
	b.PriceOverride = price
	b.Touch()
	return nil
}

// SetUsage sets the sales and purchase flags
func (b *ProductUnitBinding) SetUsage(sales, purchase bool) {
	b.IsSalesUnit = sales
	b.IsPurchaseUnit = purchase
	b.Touch()
}

// MarkAsBase flags this binding as the product's base unit
func (b *ProductUnitBinding) MarkAsBase() error {
	if !b.ConversionFactor().Equal(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_BASE_UNIT", "Base unit must represent exactly one base unit")
	}
	b.IsBaseUnit = true
	b.Touch()
	return nil
}

// UnmarkAsBase clears the base flag
func (b *ProductUnitBinding) UnmarkAsBase() {
	b.IsBaseUnit = false
	b.Touch()
}

// ConversionFactor returns the number of base units per unit, 1 when unset
func (b *ProductUnitBinding) ConversionFactor() decimal.Decimal {
	if b.QuantityPerUnit.IsZero() {
		return decimal.NewFromInt(1)
	}
	return b.QuantityPerUnit
}

// ToBase converts a quantity in this unit to base units
func (b *ProductUnitBinding) ToBase(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(b.ConversionFactor())
}

// FromBase converts a quantity in base units to this unit
func (b *ProductUnitBinding) FromBase(baseQty decimal.Decimal) decimal.Decimal {
	return baseQty.Div(b.ConversionFactor())
}

// UnitPrice returns the price of one of this unit: the override when set,
// otherwise the base price scaled by the factor.
func (b *ProductUnitBinding) UnitPrice(basePrice decimal.Decimal) decimal.Decimal {
	if b.PriceOverride != nil {
		return *b.PriceOverride
	}
	return basePrice.Mul(b.ConversionFactor())
}

// BaseBinding returns the binding flagged as base unit, or nil
func BaseBinding(bindings []ProductUnitBinding) *ProductUnitBinding {
	for i := range bindings {
		if bindings[i].IsBaseUnit {
			return &bindings[i]
		}
	}
	return nil
}

// ValidateSingleBaseUnit checks that a product's bindings have exactly one
// base unit. An empty set is valid: such a product is sold in an implicit
// base unit.
func ValidateSingleBaseUnit(bindings []ProductUnitBinding) error {
	if len(bindings) == 0 {
		return nil
	}
	count := 0
	for _, b := range bindings {
		if b.IsBaseUnit {
			count++
		}
	}
	if count != 1 {
		return shared.NewDomainError("INVALID_BASE_UNIT", "A product must have exactly one base unit")
	}
	return nil
}

func validateQuantityPerUnit(q decimal.Decimal) error {
	if !q.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY_PER_UNIT", "Quantity per unit must be positive")
	}
	return nil
}
