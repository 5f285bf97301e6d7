package handler

import (
	"context"

	salesapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceService is the sales use-case surface the invoice handler drives
type InvoiceService interface {
	Quote(ctx context.Context, req salesapp.CreateInvoiceRequest) (*salesapp.QuoteResponse, error)
	Create(ctx context.Context, req salesapp.CreateInvoiceRequest, idempotencyKey string) (*salesapp.InvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*salesapp.InvoiceResponse, error)
	List(ctx context.Context, filter salesapp.InvoiceListFilter) ([]salesapp.InvoiceListResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req salesapp.UpdateInvoiceRequest) (*salesapp.InvoiceResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req salesapp.ChangeStatusRequest) (*salesapp.InvoiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvoiceHandler handles sales invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes mounts the invoice routes under rg
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.POST("", h.Create)
	invoices.POST("/quote", h.Quote)
	invoices.GET("", h.List)
	invoices.GET("/:id", h.GetByID)
	invoices.PUT("/:id", h.Update)
	invoices.PATCH("/:id/status", h.ChangeStatus)
	invoices.DELETE("/:id", h.Delete)
}

// Create godoc
//
//	@Summary	Create an invoice and fulfill its stock
//	@Tags		sales
//	@Param		Idempotency-Key	header	string							false	"Client generated key"
//	@Param		request			body	salesapp.CreateInvoiceRequest	true	"Invoice draft"
//	@Success	201	{object}	dto.Response{data=salesapp.InvoiceResponse}
//	@Failure	400	{object}	dto.Response
//	@Failure	409	{object}	dto.Response
//	@Router		/sales/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req salesapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req, middleware.GetIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Quote prices a draft without persisting it
//
//	@Summary	Price an invoice draft
//	@Tags		sales
//	@Param		request	body	salesapp.CreateInvoiceRequest	true	"Invoice draft"
//	@Success	200	{object}	dto.Response{data=salesapp.QuoteResponse}
//	@Router		/sales/invoices/quote [post]
func (h *InvoiceHandler) Quote(c *gin.Context) {
	var req salesapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.invoiceService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// List godoc
//
//	@Summary	List invoices
//	@Tags		sales
//	@Param		status		query	string	false	"pending, paid or cancelled"
//	@Param		customer_id	query	string	false	"Customer ID"
//	@Param		search		query	string	false	"Invoice number search"
//	@Param		page		query	int		false	"Page"
//	@Param		page_size	query	int		false	"Page size"
//	@Success	200	{object}	dto.Response{data=[]salesapp.InvoiceListResponse,meta=dto.Meta}
//	@Router		/sales/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter salesapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// GetByID godoc
//
//	@Summary	Get an invoice with customer and lines
//	@Tags		sales
//	@Param		id	path	string	true	"Invoice ID"
//	@Success	200	{object}	dto.Response{data=salesapp.InvoiceResponse}
//	@Failure	404	{object}	dto.Response
//	@Router		/sales/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Update changes the header of a pending invoice
//
//	@Summary	Update an invoice header
//	@Tags		sales
//	@Param		id		path	string							true	"Invoice ID"
//	@Param		request	body	salesapp.UpdateInvoiceRequest	true	"Header changes"
//	@Success	200	{object}	dto.Response{data=salesapp.InvoiceResponse}
//	@Router		/sales/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ChangeStatus godoc
//
//	@Summary	Mark an invoice paid or cancelled
//	@Tags		sales
//	@Param		id		path	string							true	"Invoice ID"
//	@Param		request	body	salesapp.ChangeStatusRequest	true	"Target status"
//	@Success	200	{object}	dto.Response{data=salesapp.InvoiceResponse}
//	@Failure	400	{object}	dto.Response
//	@Router		/sales/invoices/{id}/status [patch]
func (h *InvoiceHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete removes a pending invoice and restores its stock
//
//	@Summary	Delete a pending invoice
//	@Tags		sales
//	@Param		id	path	string	true	"Invoice ID"
//	@Success	204
//	@Failure	400	{object}	dto.Response
//	@Router		/sales/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
