package handler

import (
	"context"

	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PromotionService manages product promotions
type PromotionService interface {
	Create(ctx context.Context, req catalogapp.PromotionRequest) (*catalogapp.PromotionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.PromotionResponse, error)
	List(ctx context.Context, filter catalogapp.PromotionListFilter) ([]catalogapp.PromotionResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.PromotionRequest) (*catalogapp.PromotionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PromotionHandler handles promotion endpoints
type PromotionHandler struct {
	BaseHandler
	promotionService PromotionService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// RegisterRoutes mounts the promotion routes under rg
func (h *PromotionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	promotions := rg.Group("/promotions")
	promotions.POST("", h.Create)
	promotions.GET("", h.List)
	promotions.GET("/:id", h.GetByID)
	promotions.PUT("/:id", h.Update)
	promotions.DELETE("/:id", h.Delete)
}

// Create godoc
//
//	@Summary	Create a promotion
//	@Tags		promotions
//	@Param		request	body	catalogapp.PromotionRequest	true	"Promotion"
//	@Success	201	{object}	dto.Response{data=catalogapp.PromotionResponse}
//	@Router		/catalog/promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	var req catalogapp.PromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	promotion, err := h.promotionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, promotion)
}

func (h *PromotionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	promotion, err := h.promotionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// List godoc
//
//	@Summary	List promotions
//	@Tags		promotions
//	@Param		product_id		query	string	false	"Product ID"
//	@Param		promotion_type	query	string	false	"Promotion type"
//	@Param		active			query	bool	false	"Active filter"
//	@Success	200	{object}	dto.Response{data=[]catalogapp.PromotionResponse,meta=dto.Meta}
//	@Router		/catalog/promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	var filter catalogapp.PromotionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	promotions, total, err := h.promotionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, promotions, total, filter.Page, filter.PageSize)
}

// Update replaces a promotion's definition
func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	promotion, err := h.promotionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.promotionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
