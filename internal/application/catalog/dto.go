package catalog

import (
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"max=2000"`
	BasePrice    decimal.Decimal `json:"base_price" binding:"gte=0"`
	InitialStock *int64          `json:"initial_stock" binding:"omitempty,min=0"`
	MinStock     *int64          `json:"min_stock" binding:"omitempty,min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	BasePrice   *decimal.Decimal `json:"base_price" binding:"omitempty,gte=0"`
	MinStock    *int64           `json:"min_stock" binding:"omitempty,min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Stock       int64           `json:"stock"`
	MinStock    int64           `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateUnitRequest represents a request to create a unit of measure
type CreateUnitRequest struct {
	Name             string           `json:"name" binding:"required,min=1,max=50"`
	Abbreviation     string           `json:"abbreviation" binding:"required,min=1,max=20"`
	UnitType         string           `json:"unit_type" binding:"required,oneof=weight volume length count package"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor" binding:"omitempty,gt=0"`
}

// UpdateUnitRequest represents a request to update a unit
type UpdateUnitRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=50"`
	Abbreviation     *string          `json:"abbreviation" binding:"omitempty,min=1,max=20"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor" binding:"omitempty,gt=0"`
	Active           *bool            `json:"active"`
}

// ConvertUnitRequest asks for a quantity expressed in another unit
type ConvertUnitRequest struct {
	FromUnitID uuid.UUID       `json:"from_unit_id" binding:"required"`
	ToUnitID   uuid.UUID       `json:"to_unit_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"gte=0"`
}

// ConvertUnitResponse is the result of a unit conversion
type ConvertUnitResponse struct {
	FromUnitID uuid.UUID       `json:"from_unit_id"`
	ToUnitID   uuid.UUID       `json:"to_unit_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Result     decimal.Decimal `json:"result"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Abbreviation     string           `json:"abbreviation"`
	UnitType         string           `json:"unit_type"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
	Active           bool             `json:"active"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// UnitListFilter represents filter options for unit list
type UnitListFilter struct {
	Search   string `form:"search"`
	UnitType string `form:"unit_type" binding:"omitempty,oneof=weight volume length count package"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateBindingRequest binds a unit to a product
type CreateBindingRequest struct {
	UnitID          uuid.UUID        `json:"unit_id" binding:"required"`
	QuantityPerUnit decimal.Decimal  `json:"quantity" binding:"gt=0"`
	PriceOverride   *decimal.Decimal `json:"price_modifier" binding:"omitempty,gte=0"`
	IsBaseUnit      bool             `json:"is_base_unit"`
	IsSalesUnit     *bool            `json:"is_sales_unit"`
	IsPurchaseUnit  *bool            `json:"is_purchase_unit"`
}

// UpdateBindingRequest changes an existing binding
type UpdateBindingRequest struct {
	QuantityPerUnit    *decimal.Decimal `json:"quantity" binding:"omitempty,gt=0"`
	PriceOverride      *decimal.Decimal `json:"price_modifier" binding:"omitempty,gte=0"`
	ClearPriceOverride bool             `json:"clear_price_modifier"`
	IsSalesUnit        *bool            `json:"is_sales_unit"`
	IsPurchaseUnit     *bool            `json:"is_purchase_unit"`
}

// BindingResponse represents a product unit binding
type BindingResponse struct {
	ID               uuid.UUID        `json:"id"`
	ProductID        uuid.UUID        `json:"product_id"`
	UnitID           uuid.UUID        `json:"unit_id"`
	UnitName         string           `json:"unit_name,omitempty"`
	UnitAbbreviation string           `json:"unit_abbreviation,omitempty"`
	QuantityPerUnit  decimal.Decimal  `json:"quantity"`
	PriceOverride    *decimal.Decimal `json:"price_modifier"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	IsBaseUnit       bool             `json:"is_base_unit"`
	IsSalesUnit      bool             `json:"is_sales_unit"`
	IsPurchaseUnit   bool             `json:"is_purchase_unit"`
}

// PromotionRequest creates or replaces a promotion
type PromotionRequest struct {
	ProductID          uuid.UUID        `json:"product_id" binding:"required"`
	Name               string           `json:"name" binding:"required,min=1,max=100"`
	PromotionType      string           `json:"promotion_type" binding:"required,oneof=buy_x_get_y percentage_discount fixed_discount"`
	BuyQuantity        int64            `json:"buy_quantity" binding:"min=0,max=1000000000"`
	GetQuantity        int64            `json:"get_quantity" binding:"min=0,max=1000000000"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" binding:"omitempty,gte=0,lte=100"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount" binding:"omitempty,gte=0"`
	MinQuantity        int64            `json:"min_quantity" binding:"min=0,max=1000000000"`
	StartDate          *time.Time       `json:"start_date"`
	EndDate            *time.Time       `json:"end_date"`
	Active             *bool            `json:"active"`
}

// PromotionResponse represents a promotion
type PromotionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	Name               string          `json:"name"`
	PromotionType      string          `json:"promotion_type"`
	BuyQuantity        int64           `json:"buy_quantity"`
	GetQuantity        int64           `json:"get_quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	MinQuantity        int64           `json:"min_quantity"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            *time.Time      `json:"end_date"`
	Active             bool            `json:"active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// PromotionListFilter represents filter options for promotion list
type PromotionListFilter struct {
	Search        string     `form:"search"`
	ProductID     *uuid.UUID `form:"product_id"`
	PromotionType string     `form:"promotion_type" binding:"omitempty,oneof=buy_x_get_y percentage_discount fixed_discount"`
	Active        *bool      `form:"active"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.IsLowStock(),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToUnitResponse converts a domain Unit to UnitResponse
func ToUnitResponse(u *catalog.Unit) UnitResponse {
	return UnitResponse{
		ID:               u.ID,
		Name:             u.Name,
		Abbreviation:     u.Abbreviation,
		UnitType:         u.UnitType.String(),
		ConversionFactor: u.ConversionFactor,
		Active:           u.Active,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// ToUnitResponses converts a slice of domain Units
func ToUnitResponses(units []catalog.Unit) []UnitResponse {
	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = ToUnitResponse(&units[i])
	}
	return responses
}

// ToBindingResponse converts a binding. unit may be nil when it was not loaded.
func ToBindingResponse(b *catalog.ProductUnitBinding, basePrice decimal.Decimal, unit *catalog.Unit) BindingResponse {
	resp := BindingResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		UnitID:          b.UnitID,
		QuantityPerUnit: b.ConversionFactor(),
		PriceOverride:   b.PriceOverride,
		UnitPrice:       b.UnitPrice(basePrice),
		IsBaseUnit:      b.IsBaseUnit,
		IsSalesUnit:     b.IsSalesUnit,
		IsPurchaseUnit:  b.IsPurchaseUnit,
	}
	if unit != nil {
		resp.UnitName = unit.Name
		resp.UnitAbbreviation = unit.Abbreviation
	}
	return resp
}

// ToPromotionResponse converts a domain Promotion to PromotionResponse
func ToPromotionResponse(p *catalog.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:                 p.ID,
		ProductID:          p.ProductID,
		Name:               p.Name,
		PromotionType:      string(p.Type),
		BuyQuantity:        p.BuyQuantity,
		GetQuantity:        p.GetQuantity,
		DiscountPercentage: p.DiscountPercentage,
		DiscountAmount:     p.DiscountAmount,
		MinQuantity:        p.MinQuantity,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		Active:             p.Active,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Version:            p.Version,
	}
}

// ToPromotionResponses converts a slice of domain Promotions
func ToPromotionResponses(promotions []catalog.Promotion) []PromotionResponse {
	responses := make([]PromotionResponse, len(promotions))
	for i := range promotions {
		responses[i] = ToPromotionResponse(&promotions[i])
	}
	return responses
}
