package handler

import (
	"context"

	productionapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/production"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductionService manages production batches
type ProductionService interface {
	Create(ctx context.Context, req productionapp.CreateRecordRequest) (*productionapp.RecordResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*productionapp.RecordResponse, error)
	List(ctx context.Context, filter productionapp.RecordListFilter) ([]productionapp.RecordResponse, int64, error)
	Complete(ctx context.Context, id uuid.UUID) (*productionapp.RecordResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*productionapp.RecordResponse, error)
}

// ProductionHandler handles production record endpoints
type ProductionHandler struct {
	BaseHandler
	productionService ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// RegisterRoutes mounts the production routes under rg
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/records")
	records.POST("", h.Create)
	records.GET("", h.List)
	records.GET("/:id", h.GetByID)
	records.POST("/:id/complete", h.Complete)
	records.POST("/:id/cancel", h.Cancel)
}

// Create godoc
//
//	@Summary	Register a production batch
//	@Tags		production
//	@Param		request	body	productionapp.CreateRecordRequest	true	"Batch"
//	@Success	201	{object}	dto.Response{data=productionapp.RecordResponse}
//	@Router		/production/records [post]
func (h *ProductionHandler) Create(c *gin.Context) {
	var req productionapp.CreateRecordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	record, err := h.productionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

func (h *ProductionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	record, err := h.productionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

func (h *ProductionHandler) List(c *gin.Context) {
	var filter productionapp.RecordListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	records, total, err := h.productionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// Complete godoc
//
//	@Summary	Complete a batch and add its quantity to stock
//	@Tags		production
//	@Param		id	path	string	true	"Record ID"
//	@Success	200	{object}	dto.Response{data=productionapp.RecordResponse}
//	@Failure	400	{object}	dto.Response	"Record is not in process"
//	@Router		/production/records/{id}/complete [post]
func (h *ProductionHandler) Complete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	record, err := h.productionService.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Cancel abandons an in-process batch
func (h *ProductionHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	record, err := h.productionService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
