package handler

import (
	"context"

	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductService is the catalog product surface
type ProductService interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes mounts the product routes under rg
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)
	products.POST("/:id/activate", h.Activate)
	products.POST("/:id/deactivate", h.Deactivate)
}

// Create godoc
//
//	@Summary	Create a new product
//	@Tags		products
//	@Param		request	body	catalogapp.CreateProductRequest	true	"Product creation request"
//	@Success	201	{object}	dto.Response{data=catalogapp.ProductResponse}
//	@Failure	409	{object}	dto.Response
//	@Router		/catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
//
//	@Summary	Get product by ID
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	200	{object}	dto.Response{data=catalogapp.ProductResponse}
//	@Failure	404	{object}	dto.Response
//	@Router		/catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
//
//	@Summary	List products
//	@Tags		products
//	@Param		search		query	string	false	"Code or name search"
//	@Param		active		query	bool	false	"Active filter"
//	@Param		low_stock	query	bool	false	"Only products at or below min stock"
//	@Success	200	{object}	dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
//	@Router		/catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary	Update a product
//	@Tags		products
//	@Param		id		path	string							true	"Product ID"
//	@Param		request	body	catalogapp.UpdateProductRequest	true	"Product update request"
//	@Success	200	{object}	dto.Response{data=catalogapp.ProductResponse}
//	@Router		/catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
//
//	@Summary	Delete a product
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	204
//	@Router		/catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
//
//	@Summary	Activate a product
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	200	{object}	dto.Response{data=catalogapp.ProductResponse}
//	@Router		/catalog/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Deactivate godoc
//
//	@Summary	Deactivate a product
//	@Tags		products
//	@Param		id	path	string	true	"Product ID"
//	@Success	200	{object}	dto.Response{data=catalogapp.ProductResponse}
//	@Router		/catalog/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
