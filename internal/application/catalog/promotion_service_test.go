package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buyFiveGetOne(productID uuid.UUID) PromotionRequest {
	return PromotionRequest{
		ProductID:     productID,
		Name:          "5 + 1",
		PromotionType: "buy_x_get_y",
		BuyQuantity:   5,
		GetQuantity:   1,
	}
}

func TestPromotionService_Create(t *testing.T) {
	promotions := new(MockPromotionRepository)
	products := new(MockProductRepository)
	service := NewPromotionService(promotions, products)
	ctx := context.Background()
	product := newTestProduct(t, "PAN", "0.25")

	products.On("FindByID", ctx, product.ID).Return(product, nil)
	promotions.On("Save", ctx, mock.AnythingOfType("*catalog.Promotion")).Return(nil)

	result, err := service.Create(ctx, buyFiveGetOne(product.ID))

	require.NoError(t, err)
	assert.Equal(t, product.ID, result.ProductID)
	assert.Equal(t, "buy_x_get_y", result.PromotionType)
	assert.Equal(t, int64(5), result.BuyQuantity)
	assert.True(t, result.Active)
	promotions.AssertExpectations(t)
}

func TestPromotionService_Create_Inactive(t *testing.T) {
	promotions := new(MockPromotionRepository)
	products := new(MockProductRepository)
	service := NewPromotionService(promotions, products)
	ctx := context.Background()
	product := newTestProduct(t, "PAN", "0.25")

	products.On("FindByID", ctx, product.ID).Return(product, nil)
	promotions.On("Save", ctx, mock.MatchedBy(func(p *catalog.Promotion) bool {
		return !p.Active
	})).Return(nil)

	req := buyFiveGetOne(product.ID)
	inactive := false
	req.Active = &inactive
	result, err := service.Create(ctx, req)

	require.NoError(t, err)
	assert.False(t, result.Active)
}

func TestPromotionService_Create_UnknownProduct(t *testing.T) {
	promotions := new(MockPromotionRepository)
	products := new(MockProductRepository)
	service := NewPromotionService(promotions, products)
	ctx := context.Background()
	missing := uuid.New()

	products.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

	_, err := service.Create(ctx, buyFiveGetOne(missing))

	assert.ErrorIs(t, err, shared.ErrProductNotFound)
	promotions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPromotionService_Create_InvalidTerms(t *testing.T) {
	promotions := new(MockPromotionRepository)
	products := new(MockProductRepository)
	service := NewPromotionService(promotions, products)
	ctx := context.Background()
	product := newTestProduct(t, "PAN", "0.25")
	products.On("FindByID", ctx, product.ID).Return(product, nil)

	tests := []struct {
		name string
		req  PromotionRequest
		code string
	}{
		{
			name: "percentage above 100",
			req: PromotionRequest{
				ProductID: product.ID, Name: "Half", PromotionType: "percentage_discount",
				DiscountPercentage: decPtr("120"),
			},
			code: "INVALID_DISCOUNT_PERCENTAGE",
		},
		{
			name: "fixed without amount",
			req:  PromotionRequest{ProductID: product.ID, Name: "Off", PromotionType: "fixed_discount"},
			code: "INVALID_DISCOUNT_AMOUNT",
		},
		{
			name: "end before start",
			req: func() PromotionRequest {
				r := buyFiveGetOne(product.ID)
				start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
				end := start.AddDate(0, 0, -1)
				r.StartDate, r.EndDate = &start, &end
				return r
			}(),
			code: "INVALID_DATE_RANGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.req)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
	promotions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPromotionService_Update(t *testing.T) {
	ctx := context.Background()
	product := newTestProduct(t, "PAN", "0.25")

	t.Run("changes terms and deactivates", func(t *testing.T) {
		promotions := new(MockPromotionRepository)
		service := NewPromotionService(promotions, new(MockProductRepository))
		existing, err := catalog.NewPromotion(product.ID, "5 + 1", toTerms(buyFiveGetOne(product.ID)))
		require.NoError(t, err)

		promotions.On("FindByID", ctx, existing.ID).Return(existing, nil)
		promotions.On("Save", ctx, existing).Return(nil)

		inactive := false
		result, err := service.Update(ctx, existing.ID, PromotionRequest{
			ProductID:          product.ID,
			Name:               "10% off",
			PromotionType:      "percentage_discount",
			DiscountPercentage: decPtr("10"),
			Active:             &inactive,
		})

		require.NoError(t, err)
		assert.Equal(t, "percentage_discount", result.PromotionType)
		assert.True(t, result.DiscountPercentage.Equal(decimal.NewFromInt(10)))
		assert.False(t, result.Active)
	})

	t.Run("cannot move to another product", func(t *testing.T) {
		promotions := new(MockPromotionRepository)
		service := NewPromotionService(promotions, new(MockProductRepository))
		existing, err := catalog.NewPromotion(product.ID, "5 + 1", toTerms(buyFiveGetOne(product.ID)))
		require.NoError(t, err)
		promotions.On("FindByID", ctx, existing.ID).Return(existing, nil)

		_, err = service.Update(ctx, existing.ID, buyFiveGetOne(uuid.New()))

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		promotions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPromotionService_List(t *testing.T) {
	promotions := new(MockPromotionRepository)
	service := NewPromotionService(promotions, new(MockProductRepository))
	ctx := context.Background()
	productID := uuid.New()

	expected := shared.Filter{
		Page:     2,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]interface{}{"product_id": productID, "promotion_type": "buy_x_get_y"},
	}
	promotions.On("FindAll", ctx, expected).Return([]catalog.Promotion{}, nil)
	promotions.On("Count", ctx, expected).Return(int64(21), nil)

	result, total, err := service.List(ctx, PromotionListFilter{ProductID: &productID, PromotionType: "buy_x_get_y", Page: 2})

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, int64(21), total)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
