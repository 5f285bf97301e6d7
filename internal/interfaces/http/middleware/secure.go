package middleware

import (
	"strconv"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

const (
	apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"
	apiPermissionsPolicy     = "camera=(), geolocation=(), microphone=(), payment=(), usb=()"
)

// Secure sets the response headers for a JSON-only API. Invoice and
// customer data must not be cached by browsers or proxies, so every
// response is no-store. HSTS is sent only when cfg.HSTSMaxAge is positive.
func Secure(cfg config.HTTPConfig) gin.HandlerFunc {
	headers := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "no-referrer",
		"Content-Security-Policy": apiContentSecurityPolicy,
		"Permissions-Policy":      apiPermissionsPolicy,
		"Cache-Control":           "no-store",
	}
	if secs := int64(cfg.HSTSMaxAge.Seconds()); secs > 0 {
		headers["Strict-Transport-Security"] = "max-age=" + strconv.FormatInt(secs, 10) + "; includeSubDomains"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range headers {
			h.Set(k, v)
		}
		c.Next()
	}
}
