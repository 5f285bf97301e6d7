// Package handler holds the gin handlers of the POS API.
package handler

import (
	"errors"
	"net/http"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/logger"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/dto"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// StockShortfall is the error context of an INSUFFICIENT_STOCK response
type StockShortfall struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int64     `json:"requested"`
	Available   int64     `json:"available"`
	Shortfall   int64     `json:"shortfall"`
}

// getRequestID extracts the request ID set by the RequestID middleware,
// falling back to the inbound header.
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta.
// Zero page values are reported with the defaults the services apply.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindJSON binds the request body and writes the validation response on
// failure. It reports whether the handler may continue.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters the same way BindJSON binds bodies
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ParseID parses the named path parameter as a UUID, answering 400 when it
// is malformed.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

// HandleError converts err into a response. Domain errors keep their code
// and message; anything else is logged and reported as a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var stockErr *shared.InsufficientStockError
	if errors.As(err, &stockErr) {
		resp := dto.NewErrorResponseWithRequestID(shared.CodeInsufficientStock, stockErr.Error(), requestID)
		resp.Error.Context = StockShortfall{
			ProductID:   stockErr.ProductID,
			ProductName: stockErr.ProductName,
			Requested:   stockErr.Requested,
			Available:   stockErr.Available,
			Shortfall:   stockErr.Shortfall(),
		}
		c.JSON(dto.GetHTTPStatus(shared.CodeInsufficientStock), resp)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code),
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	_ = c.Error(err)
	logger.GetGinLogger(c).Error("unhandled error", zap.Error(err), zap.String("route", c.FullPath()))
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, dto.InternalErrorMessage, requestID))
}
