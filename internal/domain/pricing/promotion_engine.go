package pricing

import (
	"sort"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StackingPolicy decides how several effective promotions of one product combine
type StackingPolicy string

const (
	// StackAll evaluates every effective promotion against the same aggregate
	// quantity and sums their bonuses and discounts.
	StackAll StackingPolicy = "stack_all"
	// BestSingle keeps only the promotion with the largest discount.
	BestSingle StackingPolicy = "best_single"
)

// IsValid returns true if the policy is known
func (p StackingPolicy) IsValid() bool {
	return p == StackAll || p == BestSingle
}

// ParseStackingPolicy parses a configured policy; empty means StackAll
func ParseStackingPolicy(s string) (StackingPolicy, error) {
	if s == "" {
		return StackAll, nil
	}
	p := StackingPolicy(s)
	if !p.IsValid() {
		return "", shared.NewDomainError("INVALID_PROMOTION_POLICY", "Promotion policy must be stack_all or best_single")
	}
	return p, nil
}

// AppliedPromotion records what one promotion contributed
type AppliedPromotion struct {
	PromotionID    uuid.UUID             `json:"promotion_id"`
	Name           string                `json:"name"`
	Type           catalog.PromotionType `json:"type"`
	TimesApplied   int64                 `json:"times_applied"`
	BonusBaseUnits int64                 `json:"bonus_base_units"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
}

// PromotionResult is the combined outcome for one product group
type PromotionResult struct {
	ProductID      uuid.UUID          `json:"product_id"`
	BonusBaseUnits int64              `json:"bonus_base_units"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TimesApplied   int64              `json:"times_applied"`
	Applied        []AppliedPromotion `json:"applied"`
}

// IsEmpty reports whether no promotion contributed
func (r PromotionResult) IsEmpty() bool {
	return len(r.Applied) == 0
}

// PromotionEngine evaluates promotions on the aggregate base quantity of a product
type PromotionEngine struct {
	policy StackingPolicy
}

// NewPromotionEngine creates an engine with the given stacking policy.
// An invalid policy falls back to StackAll.
func NewPromotionEngine(policy StackingPolicy) *PromotionEngine {
	if !policy.IsValid() {
		policy = StackAll
	}
	return &PromotionEngine{policy: policy}
}

// Policy returns the engine's stacking policy
func (e *PromotionEngine) Policy() StackingPolicy {
	return e.policy
}

// Evaluate computes bonus units and discount for one product group.
// Promotions of other products are ignored. The result does not depend on
// the order of promotions.
func (e *PromotionEngine) Evaluate(
	productID uuid.UUID,
	totalBaseQuantity int64,
	unitBasePrice decimal.Decimal,
	promotions []catalog.Promotion,
) PromotionResult {
	result := PromotionResult{
		ProductID:      productID,
		DiscountAmount: decimal.Zero,
	}

	candidates := make([]catalog.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.ProductID == productID {
			candidates = append(candidates, p)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	applied := make([]AppliedPromotion, 0, len(candidates))
	for i := range candidates {
		if a, ok := evaluateOne(&candidates[i], totalBaseQuantity, unitBasePrice); ok {
			applied = append(applied, a)
		}
	}

	if e.policy == BestSingle && len(applied) > 1 {
		best := applied[0]
		for _, a := range applied[1:] {
			if a.DiscountAmount.GreaterThan(best.DiscountAmount) ||
				(a.DiscountAmount.Equal(best.DiscountAmount) && a.BonusBaseUnits > best.BonusBaseUnits) {
				best = a
			}
		}
		applied = []AppliedPromotion{best}
	}

	for _, a := range applied {
		result.BonusBaseUnits += a.BonusBaseUnits
		result.DiscountAmount = result.DiscountAmount.Add(a.DiscountAmount)
		result.TimesApplied += a.TimesApplied
	}
	result.Applied = applied
	return result
}

func evaluateOne(p *catalog.Promotion, qty int64, unitBasePrice decimal.Decimal) (AppliedPromotion, bool) {
	if qty <= 0 || qty < p.MinQuantity {
		return AppliedPromotion{}, false
	}

	a := AppliedPromotion{
		PromotionID:    p.ID,
		Name:           p.Name,
		Type:           p.Type,
		DiscountAmount: decimal.Zero,
	}

	switch p.Type {
	case catalog.PromotionBuyXGetY:
		if p.BuyQuantity <= 0 {
			return AppliedPromotion{}, false
		}
		a.TimesApplied = qty / p.BuyQuantity
		a.BonusBaseUnits = a.TimesApplied * p.GetQuantity
		a.DiscountAmount = unitBasePrice.Mul(decimal.NewFromInt(a.BonusBaseUnits))
	case catalog.PromotionPercentageDiscount:
		a.TimesApplied = 1
		a.DiscountAmount = unitBasePrice.
			Mul(decimal.NewFromInt(qty)).
			Mul(p.DiscountPercentage).
			Div(decimal.NewFromInt(100))
	case catalog.PromotionFixedDiscount:
		a.TimesApplied = 1
		a.DiscountAmount = p.DiscountAmount
	default:
		return AppliedPromotion{}, false
	}

	if a.TimesApplied == 0 {
		return AppliedPromotion{}, false
	}
	return a, true
}

// EffectivePromotions returns the promotions that are active and inside
// their validity window at the given instant
func EffectivePromotions(promotions []catalog.Promotion, at time.Time) []catalog.Promotion {
	out := make([]catalog.Promotion, 0, len(promotions))
	for i := range promotions {
		if promotions[i].IsEffectiveAt(at) {
			out = append(out, promotions[i])
		}
	}
	return out
}

// DistributeBonus spreads bonus units over a product's lines in proportion to
// each line's base quantity, rounding down. The rounding remainder is dropped.
func DistributeBonus(lineQuantities []int64, bonus int64) []int64 {
	shares := make([]int64, len(lineQuantities))
	if bonus <= 0 {
		return shares
	}
	var total int64
	for _, q := range lineQuantities {
		total += q
	}
	if total <= 0 {
		return shares
	}
	for i, q := range lineQuantities {
		shares[i] = bonus * q / total
	}
	return shares
}
