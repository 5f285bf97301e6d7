package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader lets a register retry an invoice submission safely
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyKeyCtxKey = "idempotency_key"
)

// IdempotencyConfig bounds the accepted key
type IdempotencyConfig struct {
	MaxLength int
}

// DefaultIdempotencyConfig returns the default key limits
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{MaxLength: 128}
}

// Idempotency validates the Idempotency-Key header and stores it for the
// handler. Requests without the header pass through unchanged. The key is
// claimed by the invoice service, not here.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultIdempotencyConfig().MaxLength
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > cfg.MaxLength || !printableASCII(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				fmt.Sprintf("Idempotency-Key must be printable ASCII of at most %d characters", cfg.MaxLength),
				getRequestIDFromContext(c),
			))
			return
		}
		c.Set(idempotencyKeyCtxKey, key)
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key, or "" when none was sent
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(idempotencyKeyCtxKey)
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
