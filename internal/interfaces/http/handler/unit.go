package handler

import (
	"context"

	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UnitService is the unit-of-measure surface
type UnitService interface {
	Create(ctx context.Context, req catalogapp.CreateUnitRequest) (*catalogapp.UnitResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.UnitResponse, error)
	List(ctx context.Context, filter catalogapp.UnitListFilter) ([]catalogapp.UnitResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateUnitRequest) (*catalogapp.UnitResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Convert(ctx context.Context, req catalogapp.ConvertUnitRequest) (*catalogapp.ConvertUnitResponse, error)
}

// UnitHandler handles unit endpoints
type UnitHandler struct {
	BaseHandler
	unitService UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(unitService UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// RegisterRoutes mounts the unit routes under rg
func (h *UnitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	units := rg.Group("/units")
	units.POST("", h.Create)
	units.GET("", h.List)
	units.POST("/convert", h.Convert)
	units.GET("/:id", h.GetByID)
	units.PUT("/:id", h.Update)
	units.DELETE("/:id", h.Delete)
}

// Create registers a unit of measure
func (h *UnitHandler) Create(c *gin.Context) {
	var req catalogapp.CreateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit, err := h.unitService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, unit)
}

func (h *UnitHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	unit, err := h.unitService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

func (h *UnitHandler) List(c *gin.Context) {
	var filter catalogapp.UnitListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	units, total, err := h.unitService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, units, total, filter.Page, filter.PageSize)
}

func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, unit)
}

// Delete removes a unit. Units still bound to products are rejected by the
// service.
func (h *UnitHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Convert godoc
//
//	@Summary	Convert a quantity between two units of the same type
//	@Tags		units
//	@Param		request	body	catalogapp.ConvertUnitRequest	true	"Conversion request"
//	@Success	200	{object}	dto.Response{data=catalogapp.ConvertUnitResponse}
//	@Failure	400	{object}	dto.Response	"INCOMPATIBLE_UNIT_TYPE"
//	@Router		/catalog/units/convert [post]
func (h *UnitHandler) Convert(c *gin.Context) {
	var req catalogapp.ConvertUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.unitService.Convert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
