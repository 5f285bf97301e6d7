package sales

import (
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/partner"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one requested line. ProductName and UnitPrice are
// accepted for client convenience but the server prices every line itself.
type InvoiceLineRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name"`
	UnitID      *uuid.UUID       `json:"unit_id"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"gt=0,lte=1000000000"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Discount    *decimal.Decimal `json:"discount" binding:"omitempty,gte=0"`
}

// CreateInvoiceRequest is the draft invoice submitted by the client.
// Tax and totals in the request are advisory.
type CreateInvoiceRequest struct {
	CustomerID    uuid.UUID            `json:"customer_id" binding:"required"`
	InvoiceNumber string               `json:"invoice_number" binding:"required,min=1,max=50"`
	InvoiceDate   *time.Time           `json:"invoice_date"`
	Tax           *decimal.Decimal     `json:"tax"`
	TaxEnabled    *bool                `json:"tax_enabled"`
	Discount      *decimal.Decimal     `json:"discount" binding:"omitempty,gte=0"`
	PaymentMethod string               `json:"payment_method" binding:"omitempty,oneof=cash card transfer credit"`
	Notes         string               `json:"notes" binding:"max=2000"`
	Details       []InvoiceLineRequest `json:"details" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest changes the header of a pending invoice
type UpdateInvoiceRequest struct {
	TaxEnabled    *bool            `json:"tax_enabled"`
	Discount      *decimal.Decimal `json:"discount" binding:"omitempty,gte=0"`
	PaymentMethod *string          `json:"payment_method" binding:"omitempty,oneof=cash card transfer credit"`
	Notes         *string          `json:"notes" binding:"omitempty,max=2000"`
}

// ChangeStatusRequest moves a pending invoice to paid or cancelled
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending paid cancelled"`
	CustomerID *uuid.UUID `form:"customer_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerSummary is the customer embedded in invoice responses
type CustomerSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	DocumentNumber string    `json:"document_number"`
	Email          string    `json:"email,omitempty"`
}

// InvoiceLineResponse is a frozen invoice line
type InvoiceLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	LineNumber       int             `json:"line_number"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	UnitID           *uuid.UUID      `json:"unit_id,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         decimal.Decimal `json:"quantity"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	QuantityBaseUnit int64           `json:"quantity_base_unit"`
	BonusBaseUnits   int64           `json:"bonus_base_units"`
	Discount         decimal.Decimal `json:"discount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse is an invoice with its customer and lines
type InvoiceResponse struct {
	ID                uuid.UUID                 `json:"id"`
	InvoiceNumber     string                    `json:"invoice_number"`
	CustomerID        uuid.UUID                 `json:"customer_id"`
	Customer          *CustomerSummary          `json:"customer,omitempty"`
	InvoiceDate       time.Time                 `json:"invoice_date"`
	Status            string                    `json:"status"`
	TaxEnabled        bool                      `json:"tax_enabled"`
	TaxRate           decimal.Decimal           `json:"tax_rate"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	Tax               decimal.Decimal           `json:"tax"`
	ManualDiscount    decimal.Decimal           `json:"manual_discount"`
	LineDiscount      decimal.Decimal           `json:"line_discount"`
	PromotionDiscount decimal.Decimal           `json:"promotion_discount"`
	Discount          decimal.Decimal           `json:"discount"`
	Total             decimal.Decimal           `json:"total"`
	PaymentMethod     string                    `json:"payment_method"`
	Notes             string                    `json:"notes"`
	AppliedPromotions []pricing.PromotionResult `json:"applied_promotions"`
	Details           []InvoiceLineResponse     `json:"details"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
	Version           int                       `json:"version"`
}

// InvoiceListResponse is an invoice row in listings
type InvoiceListResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// QuoteLineResponse is a priced draft line
type QuoteLineResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	UnitID           *uuid.UUID      `json:"unit_id,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         decimal.Decimal `json:"quantity"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	QuantityBaseUnit int64           `json:"quantity_base_unit"`
	BonusBaseUnits   int64           `json:"bonus_base_units"`
	Discount         decimal.Decimal `json:"discount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// QuoteResponse is the priced draft returned without persisting anything
type QuoteResponse struct {
	CustomerID        uuid.UUID                 `json:"customer_id"`
	InvoiceNumber     string                    `json:"invoice_number"`
	TaxEnabled        bool                      `json:"tax_enabled"`
	TaxRate           decimal.Decimal           `json:"tax_rate"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	Tax               decimal.Decimal           `json:"tax"`
	ManualDiscount    decimal.Decimal           `json:"manual_discount"`
	LineDiscount      decimal.Decimal           `json:"line_discount"`
	PromotionDiscount decimal.Decimal           `json:"promotion_discount"`
	Discount          decimal.Decimal           `json:"discount"`
	Total             decimal.Decimal           `json:"total"`
	AppliedPromotions []pricing.PromotionResult `json:"applied_promotions"`
	Details           []QuoteLineResponse       `json:"details"`
}

// ToInvoiceResponse converts an invoice and, when known, its customer
func ToInvoiceResponse(inv *sales.Invoice, customer *partner.Customer) InvoiceResponse {
	promotions, _ := inv.Promotions()
	if promotions == nil {
		promotions = []pricing.PromotionResult{}
	}
	details := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		details[i] = InvoiceLineResponse{
			ID:               l.ID,
			LineNumber:       l.LineNumber,
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			UnitID:           l.UnitID,
			UnitPrice:        l.UnitPrice,
			Quantity:         l.Quantity,
			ConversionFactor: l.ConversionFactor,
			QuantityBaseUnit: l.QuantityBaseUnit,
			BonusBaseUnits:   l.BonusBaseUnits,
			Discount:         l.Discount,
			TaxAmount:        l.TaxAmount,
			Subtotal:         l.Subtotal,
		}
	}

	resp := InvoiceResponse{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		CustomerID:        inv.CustomerID,
		InvoiceDate:       inv.InvoiceDate,
		Status:            string(inv.Status),
		TaxEnabled:        inv.TaxEnabled,
		TaxRate:           inv.TaxRate,
		Subtotal:          inv.Subtotal,
		Tax:               inv.Tax,
		ManualDiscount:    inv.ManualDiscount,
		LineDiscount:      inv.LineDiscount,
		PromotionDiscount: inv.PromotionDiscount,
		Discount:          inv.Discount,
		Total:             inv.Total,
		PaymentMethod:     string(inv.PaymentMethod),
		Notes:             inv.Notes,
		AppliedPromotions: promotions,
		Details:           details,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
	if customer != nil {
		resp.Customer = &CustomerSummary{
			ID:             customer.ID,
			Name:           customer.Name,
			DocumentNumber: customer.DocumentNumber,
			Email:          customer.Email,
		}
	}
	return resp
}

// ToInvoiceListResponses converts invoices to list rows. names maps customer
// ids to display names; missing entries leave the name empty.
func ToInvoiceListResponses(invoices []sales.Invoice, names map[uuid.UUID]string) []InvoiceListResponse {
	out := make([]InvoiceListResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = InvoiceListResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerID:    inv.CustomerID,
			CustomerName:  names[inv.CustomerID],
			InvoiceDate:   inv.InvoiceDate,
			Status:        string(inv.Status),
			Total:         inv.Total,
			PaymentMethod: string(inv.PaymentMethod),
			CreatedAt:     inv.CreatedAt,
		}
	}
	return out
}

// ToQuoteResponse converts a priced draft
func ToQuoteResponse(d *pricing.InvoiceDraft) QuoteResponse {
	details := make([]QuoteLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		details[i] = QuoteLineResponse{
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			UnitID:           l.UnitID,
			UnitPrice:        l.UnitPrice,
			Quantity:         l.Quantity,
			ConversionFactor: l.ConversionFactor,
			QuantityBaseUnit: l.QuantityBaseUnit,
			BonusBaseUnits:   l.BonusBaseUnits,
			Discount:         l.Discount,
			TaxAmount:        l.TaxAmount,
			Subtotal:         l.Subtotal,
		}
	}
	promotions := d.Promotions
	if promotions == nil {
		promotions = []pricing.PromotionResult{}
	}
	return QuoteResponse{
		CustomerID:        d.CustomerID,
		InvoiceNumber:     d.InvoiceNumber,
		TaxEnabled:        d.TaxEnabled,
		TaxRate:           d.TaxRate,
		Subtotal:          d.Subtotal,
		Tax:               d.Tax,
		ManualDiscount:    d.ManualDiscount,
		LineDiscount:      d.LineDiscount,
		PromotionDiscount: d.PromotionDiscount,
		Discount:          d.Discount,
		Total:             d.Total,
		AppliedPromotions: promotions,
		Details:           details,
	}
}
