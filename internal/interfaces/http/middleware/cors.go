package middleware

import (
	"fmt"
	"slices"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Origin", "Accept", "Content-Type", "Authorization", RequestIDHeader, IdempotencyKeyHeader}
)

// CORS allows the configured web registers to call the API from a browser.
// With no origins configured the middleware is a no-op and browsers keep
// the API same-origin. "*" opens every origin but never with credentials.
func CORS(cfg config.HTTPConfig) (gin.HandlerFunc, error) {
	if len(cfg.CORSAllowOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }, nil
	}

	cc := cors.Config{
		AllowMethods:  orDefault(cfg.CORSAllowMethods, defaultCORSMethods),
		AllowHeaders:  orDefault(cfg.CORSAllowHeaders, defaultCORSHeaders),
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(cfg.CORSAllowOrigins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSAllowOrigins
		cc.AllowCredentials = true
	}
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS settings: %w", err)
	}
	return cors.New(cc), nil
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
