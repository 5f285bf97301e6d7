package handler

import (
	"context"

	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BindingService manages the units a product is sold in
type BindingService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]catalogapp.BindingResponse, error)
	Create(ctx context.Context, productID uuid.UUID, req catalogapp.CreateBindingRequest) (*catalogapp.BindingResponse, error)
	Update(ctx context.Context, productID, bindingID uuid.UUID, req catalogapp.UpdateBindingRequest) (*catalogapp.BindingResponse, error)
	Delete(ctx context.Context, productID, bindingID uuid.UUID) error
	SetBase(ctx context.Context, productID, bindingID uuid.UUID) (*catalogapp.BindingResponse, error)
}

// BindingHandler handles /catalog/products/:id/units
type BindingHandler struct {
	BaseHandler
	bindingService BindingService
}

// NewBindingHandler creates a new BindingHandler
func NewBindingHandler(bindingService BindingService) *BindingHandler {
	return &BindingHandler{bindingService: bindingService}
}

// RegisterRoutes mounts the binding routes under rg
func (h *BindingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/products/:id/units")
	units.GET("", h.List)
	units.POST("", h.Create)
	units.PUT("/:bindingId", h.Update)
	units.DELETE("/:bindingId", h.Delete)
	units.POST("/:bindingId/set-base", h.SetBase)
}

// List returns every unit binding of a product
//
//	@Summary	List product units
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	200	{object}	dto.Response{data=[]catalogapp.BindingResponse}
//	@Router		/catalog/products/{id}/units [get]
func (h *BindingHandler) List(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	bindings, err := h.bindingService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bindings)
}

// Create binds a unit to a product. The first binding becomes the base unit.
//
//	@Summary	Bind a unit to a product
//	@Tags		products
//	@Param		id		path	string							true	"Product ID"
//	@Param		request	body	catalogapp.CreateBindingRequest	true	"Binding"
//	@Success	201	{object}	dto.Response{data=catalogapp.BindingResponse}
//	@Router		/catalog/products/{id}/units [post]
func (h *BindingHandler) Create(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CreateBindingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	binding, err := h.bindingService.Create(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, binding)
}

func (h *BindingHandler) Update(c *gin.Context) {
	productID, bindingID, ok := h.parseIDs(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateBindingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	binding, err := h.bindingService.Update(c.Request.Context(), productID, bindingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, binding)
}

func (h *BindingHandler) Delete(c *gin.Context) {
	productID, bindingID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	if err := h.bindingService.Delete(c.Request.Context(), productID, bindingID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetBase makes the binding the product's only base unit
//
//	@Summary	Set the base unit of a product
//	@Tags		products
//	@Param		id			path	string	true	"Product ID"
//	@Param		bindingId	path	string	true	"Binding ID"
//	@Success	200	{object}	dto.Response{data=catalogapp.BindingResponse}
//	@Router		/catalog/products/{id}/units/{bindingId}/set-base [post]
func (h *BindingHandler) SetBase(c *gin.Context) {
	productID, bindingID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	binding, err := h.bindingService.SetBase(c.Request.Context(), productID, bindingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, binding)
}

func (h *BindingHandler) parseIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	bindingID, ok := h.ParseID(c, "bindingId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return productID, bindingID, true
}
