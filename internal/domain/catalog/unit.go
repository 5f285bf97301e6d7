package catalog

import (
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitType groups units that can be converted into each other
type UnitType string

const (
	UnitTypeWeight  UnitType = "weight"
	UnitTypeVolume  UnitType = "volume"
	UnitTypeLength  UnitType = "length"
	UnitTypeCount   UnitType = "count"
	UnitTypePackage UnitType = "package"
)

// IsValid returns true if the unit type is known
func (t UnitType) IsValid() bool {
	switch t {
	case UnitTypeWeight, UnitTypeVolume, UnitTypeLength, UnitTypeCount, UnitTypePackage:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (t UnitType) String() string {
	return string(t)
}

// Unit is shared reference data describing a unit of measure. It is not owned
// by any product; products reference it through ProductUnitBinding.
type Unit struct {
	shared.BaseEntity
	Name         string           `gorm:"type:varchar(50);not null"`
	Abbreviation string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	UnitType     UnitType         `gorm:"type:varchar(20);not null"`
	// ConversionFactor is how many canonical units of the type one of this
	// unit is (kg = 1000 when grams are canonical). Nil means 1.
	ConversionFactor *decimal.Decimal `gorm:"type:decimal(18,6)"`
	Active           bool             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates a new unit definition
func NewUnit(name, abbreviation string, unitType UnitType, factor *decimal.Decimal) (*Unit, error) {
	name = strings.TrimSpace(name)
	abbreviation = strings.TrimSpace(abbreviation)
	if err := validateUnitName(name); err != nil {
		return nil, err
	}
	if err := validateAbbreviation(abbreviation); err != nil {
		return nil, err
	}
	if !unitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT_TYPE", "Unit type must be one of weight, volume, length, count, package")
	}
	if err := validateFactor(factor); err != nil {
		return nil, err
	}

	return &Unit{
		BaseEntity:       shared.NewBaseEntity(),
		Name:             name,
		Abbreviation:     abbreviation,
		UnitType:         unitType,
		ConversionFactor: factor,
		Active:           true,
	}, nil
}

// Update changes the unit's descriptive fields and factor
func (u *Unit) Update(name, abbreviation string, factor *decimal.Decimal) error {
	name = strings.TrimSpace(name)
	abbreviation = strings.TrimSpace(abbreviation)
	if err := validateUnitName(name); err != nil {
		return err
	}
	if err := validateAbbreviation(abbreviation); err != nil {
		return err
	}
	if err := validateFactor(factor); err != nil {
		return err
	}
	u.Name = name
	u.Abbreviation = abbreviation
	u.ConversionFactor = factor
	u.Touch()
	return nil
}

// Factor returns the conversion factor to the canonical unit, 1 when unset
func (u *Unit) Factor() decimal.Decimal {
	if u.ConversionFactor == nil || u.ConversionFactor.IsZero() {
		return decimal.NewFromInt(1)
	}
	return *u.ConversionFactor
}

// Convert expresses qty of this unit in the target unit by going through the
// canonical unit of the shared type. Units of different types cannot be
// converted.
func (u *Unit) Convert(qty decimal.Decimal, target *Unit) (decimal.Decimal, error) {
	if target == nil {
		return decimal.Zero, shared.NewDomainError("INVALID_UNIT", "Target unit is required")
	}
	if u.UnitType != target.UnitType {
		return decimal.Zero, shared.NewDomainError(shared.CodeIncompatibleUnitType,
			"Cannot convert "+u.Abbreviation+" ("+u.UnitType.String()+") to "+
				target.Abbreviation+" ("+target.UnitType.String()+")")
	}
	canonical := qty.Mul(u.Factor())
	return canonical.Div(target.Factor()).Round(6), nil
}

func validateUnitName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_UNIT_NAME", "Unit name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_UNIT_NAME", "Unit name cannot exceed 50 characters")
	}
	return nil
}

func validateAbbreviation(abbr string) error {
	if abbr == "" {
		return shared.NewDomainError("INVALID_UNIT_ABBREVIATION", "Unit abbreviation cannot be empty")
	}
	if len(abbr) > 20 {
		return shared.NewDomainError("INVALID_UNIT_ABBREVIATION", "Unit abbreviation cannot exceed 20 characters")
	}
	return nil
}

func validateFactor(factor *decimal.Decimal) error {
	if factor != nil && !factor.IsPositive() {
		return shared.NewDomainError("INVALID_CONVERSION_FACTOR", "Conversion factor must be positive")
	}
	return nil
}
