package catalog

import (
	"math"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxBaseQuantity caps a single stock movement in base units: one product's
// total on an invoice, one production batch, one promotion term.
const MaxBaseQuantity int64 = 1_000_000_000

// Product represents a sellable good. Stock is always held in the product's
// base unit.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"` // PVP per base unit
	Stock       int64           `gorm:"not null"`
	MinStock    int64           `gorm:"not null"`
	Active      bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with zero stock
func NewProduct(code, name string, basePrice decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateBasePrice(basePrice); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		BasePrice:         basePrice,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	if name == p.Name && description == p.Description {
		return nil
	}

	before := p.Snapshot()
	p.Name = name
	p.Description = description
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(before, p.Snapshot()))

	return nil
}

// SetBasePrice changes the price per base unit. Existing invoices keep the
// price they were created with.
func (p *Product) SetBasePrice(price decimal.Decimal) error {
	if err := validateBasePrice(price); err != nil {
		return err
	}
	if price.Equal(p.BasePrice) {
		return nil
	}

	before := p.Snapshot()
	p.BasePrice = price
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(before, p.Snapshot()))

	return nil
}

// SetMinStock sets the low-stock threshold in base units
func (p *Product) SetMinStock(minStock int64) error {
	if minStock < 0 {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	if minStock == p.MinStock {
		return nil
	}
	before := p.Snapshot()
	p.MinStock = minStock
	p.Touch()
	p.AddDomainEvent(NewProductUpdatedEvent(before, p.Snapshot()))
	return nil
}

// Activate makes the product sellable
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	before := p.Snapshot()
	p.Active = true
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(before, p.Snapshot()))

	return nil
}

// Deactivate removes the product from sale. Stock is kept.
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	before := p.Snapshot()
	p.Active = false
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(before, p.Snapshot()))

	return nil
}

// HasStock reports whether qty base units can be deducted
func (p *Product) HasStock(qty int64) bool {
	return p.Stock >= qty
}

// DeductStock removes qty base units from stock
func (p *Product) DeductStock(qty int64) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity to deduct cannot be negative")
	}
	if !p.HasStock(qty) {
		return shared.NewInsufficientStockError(p.ID, p.Name, qty, p.Stock)
	}
	p.Stock -= qty
	p.IncrementVersion()
	return nil
}

// RestoreStock adds qty base units back to stock (invoice deletion, production)
func (p *Product) RestoreStock(qty int64) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity to restore cannot be negative")
	}
	if qty > math.MaxInt64-p.Stock {
		return shared.NewDomainError("STOCK_OVERFLOW", "Stock for product "+p.Name+" would exceed the supported range")
	}
	p.Stock += qty
	p.IncrementVersion()
	return nil
}

// IsLowStock reports whether stock is at or below the configured minimum
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock <= p.MinStock
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	return nil
}
