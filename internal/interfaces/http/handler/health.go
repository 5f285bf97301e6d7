package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is a backing service the register cannot sell without
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler answers liveness probes
type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler checks each named dependency on every probe. With no
// dependencies the service reports healthy.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: 2 * time.Second}
}

// Check godoc
//
//	@Summary	Health check
//	@Tags		system
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "healthy", http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.deps[name].PingContext(ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "error"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
		"checks": checks,
	})
}
