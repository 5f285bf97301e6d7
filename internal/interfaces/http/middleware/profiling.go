package middleware

import (
	"context"
	"strings"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Pyroscope label keys
const (
	ProfilingLabelMethod = "method"
	ProfilingLabelRoute  = "route"
	ProfilingLabelDomain = "domain"
)

// ProfilingConfig controls the pprof labels attached to requests
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig leaves probes unlabelled
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/api/v1/health"},
	}
}

// ProfilingWithConfig runs each request under pprof labels so Pyroscope
// profiles can be sliced by route, e.g. invoice creation against quoting.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, profilingLabels(c)...)
	}
}

// profilingLabels returns alternating keys and values. Only the route
// pattern is used, never the raw path, to keep label cardinality low.
func profilingLabels(c *gin.Context) []string {
	labels := []string{ProfilingLabelMethod, c.Request.Method}
	route := c.FullPath()
	if route == "" {
		return labels
	}
	labels = append(labels, ProfilingLabelRoute, route)
	if domain := routeDomain(route); domain != "" {
		labels = append(labels, ProfilingLabelDomain, domain)
	}
	return labels
}

// routeDomain returns the first literal segment after the API prefix:
// "/api/v1/sales/invoices/:id" is "sales", "/health" is "health".
func routeDomain(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "" || part == "api" || isVersionSegment(part):
		case part[0] == ':' || part[0] == '*':
		default:
			return part
		}
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
