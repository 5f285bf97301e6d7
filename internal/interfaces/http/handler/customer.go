package handler

import (
	"context"

	partnerapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the partner customer surface
type CustomerService interface {
	Create(ctx context.Context, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.CustomerResponse, error)
	List(ctx context.Context, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterRoutes mounts the customer routes under rg
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	customers.POST("", h.Create)
	customers.GET("", h.List)
	customers.GET("/:id", h.GetByID)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
}

// Create godoc
//
//	@Summary	Create a new customer
//	@Tags		customers
//	@Param		request	body	partnerapp.CreateCustomerRequest	true	"Customer creation request"
//	@Success	201	{object}	dto.Response{data=partnerapp.CustomerResponse}
//	@Failure	409	{object}	dto.Response	"Document number already registered"
//	@Router		/partner/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetByID godoc
//
//	@Summary	Get customer by ID
//	@Tags		customers
//	@Param		id	path	string	true	"Customer ID"
//	@Success	200	{object}	dto.Response{data=partnerapp.CustomerResponse}
//	@Failure	404	{object}	dto.Response
//	@Router		/partner/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// List godoc
//
//	@Summary	List customers
//	@Tags		customers
//	@Param		search	query	string	false	"Name or document number search"
//	@Param		active	query	bool	false	"Active filter"
//	@Success	200	{object}	dto.Response{data=[]partnerapp.CustomerResponse,meta=dto.Meta}
//	@Router		/partner/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer that no invoice references
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
