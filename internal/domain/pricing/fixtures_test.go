package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newProduct(t *testing.T, code string, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Product "+code, dec(price))
	require.NoError(t, err)
	p.Stock = 1000
	return p
}

func newBinding(t *testing.T, productID uuid.UUID, qty string) catalog.ProductUnitBinding {
	t.Helper()
	b, err := catalog.NewProductUnitBinding(productID, uuid.New(), dec(qty))
	require.NoError(t, err)
	return *b
}

func baseBinding(t *testing.T, productID uuid.UUID) catalog.ProductUnitBinding {
	t.Helper()
	b, err := catalog.NewBaseUnitBinding(productID, uuid.New())
	require.NoError(t, err)
	return *b
}

func promo(t *testing.T, productID uuid.UUID, terms catalog.PromotionTerms) catalog.Promotion {
	t.Helper()
	p, err := catalog.NewPromotion(productID, string(terms.Type), terms)
	require.NoError(t, err)
	return *p
}

func buyXGetY(t *testing.T, productID uuid.UUID, buy, get, min int64) catalog.Promotion {
	return promo(t, productID, catalog.PromotionTerms{Type: catalog.PromotionBuyXGetY, BuyQuantity: buy, GetQuantity: get, MinQuantity: min})
}

func percentage(t *testing.T, productID uuid.UUID, pct string, min int64) catalog.Promotion {
	return promo(t, productID, catalog.PromotionTerms{Type: catalog.PromotionPercentageDiscount, DiscountPercentage: dec(pct), MinQuantity: min})
}

func fixed(t *testing.T, productID uuid.UUID, amount string, min int64) catalog.Promotion {
	return promo(t, productID, catalog.PromotionTerms{Type: catalog.PromotionFixedDiscount, DiscountAmount: dec(amount), MinQuantity: min})
}

var evaluationTime = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	return de.Code
}
