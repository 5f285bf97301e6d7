package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionType is the kind of benefit a promotion grants
type PromotionType string

const (
	PromotionBuyXGetY           PromotionType = "buy_x_get_y"
	PromotionPercentageDiscount PromotionType = "percentage_discount"
	PromotionFixedDiscount      PromotionType = "fixed_discount"
)

// IsValid returns true if the promotion type is known
func (t PromotionType) IsValid() bool {
	switch t {
	case PromotionBuyXGetY, PromotionPercentageDiscount, PromotionFixedDiscount:
		return true
	default:
		return false
	}
}

// PromotionTerms holds the type-specific parameters of a promotion
type PromotionTerms struct {
	Type               PromotionType
	BuyQuantity        int64
	GetQuantity        int64
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	MinQuantity        int64
	StartDate          *time.Time
	EndDate            *time.Time
}

// Promotion belongs to exactly one product. Quantities are in base units.
type Promotion struct {
	shared.BaseAggregateRoot
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name               string          `gorm:"type:varchar(100);not null"`
	Type               PromotionType   `gorm:"column:promotion_type;type:varchar(30);not null"`
	BuyQuantity        int64           `gorm:"not null"`
	GetQuantity        int64           `gorm:"not null"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MinQuantity        int64           `gorm:"not null"`
	StartDate          *time.Time
	EndDate            *time.Time
	Active             bool `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Promotion) TableName() string {
	return "promotions"
}

// NewPromotion creates an active promotion for a product
func NewPromotion(productID uuid.UUID, name string, terms PromotionTerms) (*Promotion, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Promotion name cannot be empty")
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	p := &Promotion{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Name:              name,
		Active:            true,
	}
	p.applyTerms(terms)
	return p, nil
}

// Update replaces the name and terms of the promotion
func (p *Promotion) Update(name string, terms PromotionTerms) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Promotion name cannot be empty")
	}
	if err := terms.Validate(); err != nil {
		return err
	}
	p.Name = name
	p.applyTerms(terms)
	p.IncrementVersion()
	return nil
}

// Activate enables the promotion
func (p *Promotion) Activate() {
	p.Active = true
	p.IncrementVersion()
}

// Deactivate disables the promotion
func (p *Promotion) Deactivate() {
	p.Active = false
	p.IncrementVersion()
}

// IsEffectiveAt reports whether the promotion is active and t falls inside
// [StartDate, EndDate]. A missing bound is unbounded.
func (p *Promotion) IsEffectiveAt(t time.Time) bool {
	if !p.Active {
		return false
	}
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}

// Terms returns the promotion's parameters
func (p *Promotion) Terms() PromotionTerms {
	return PromotionTerms{
		Type:               p.Type,
		BuyQuantity:        p.BuyQuantity,
		GetQuantity:        p.GetQuantity,
		DiscountPercentage: p.DiscountPercentage,
		DiscountAmount:     p.DiscountAmount,
		MinQuantity:        p.MinQuantity,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
	}
}

func (p *Promotion) applyTerms(t PromotionTerms) {
	p.Type = t.Type
	p.BuyQuantity = 0
	p.GetQuantity = 0
	p.DiscountPercentage = decimal.Zero
	p.DiscountAmount = decimal.Zero
	switch t.Type {
	case PromotionBuyXGetY:
		p.BuyQuantity = t.BuyQuantity
		p.GetQuantity = t.GetQuantity
	case PromotionPercentageDiscount:
		p.DiscountPercentage = t.DiscountPercentage
	case PromotionFixedDiscount:
		p.DiscountAmount = t.DiscountAmount
	}
	p.MinQuantity = t.MinQuantity
	p.StartDate = t.StartDate
	p.EndDate = t.EndDate
}

// Validate checks the type-specific fields
func (t PromotionTerms) Validate() error {
	if !t.Type.IsValid() {
		return shared.NewDomainError("INVALID_PROMOTION_TYPE", "Promotion type must be buy_x_get_y, percentage_discount or fixed_discount")
	}
	if t.MinQuantity < 0 || t.MinQuantity > MaxBaseQuantity {
		return shared.NewDomainError("INVALID_MIN_QUANTITY", "Minimum quantity must be between 0 and "+strconv.FormatInt(MaxBaseQuantity, 10))
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}

	switch t.Type {
	case PromotionBuyXGetY:
		if t.BuyQuantity <= 0 || t.BuyQuantity > MaxBaseQuantity {
			return shared.NewDomainError("INVALID_BUY_QUANTITY", "Buy quantity must be between 1 and "+strconv.FormatInt(MaxBaseQuantity, 10))
		}
		if t.GetQuantity <= 0 || t.GetQuantity > MaxBaseQuantity {
			return shared.NewDomainError("INVALID_GET_QUANTITY", "Get quantity must be between 1 and "+strconv.FormatInt(MaxBaseQuantity, 10))
		}
	case PromotionPercentageDiscount:
		if !t.DiscountPercentage.IsPositive() || t.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_DISCOUNT_PERCENTAGE", "Discount percentage must be greater than 0 and at most 100")
		}
	case PromotionFixedDiscount:
		if !t.DiscountAmount.IsPositive() {
			return shared.NewDomainError("INVALID_DISCOUNT_AMOUNT", "Discount amount must be positive")
		}
	}
	return nil
}
