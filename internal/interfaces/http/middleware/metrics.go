// Package middleware provides HTTP middleware for the POS API.
package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTP metric attribute keys
var (
	attrHTTPMethod      = attribute.Key("http.request.method")
	attrHTTPRoute       = attribute.Key("http.route")
	attrHTTPStatusCode  = attribute.Key("http.response.status_code")
	attrHTTPStatusClass = attribute.Key("http.response.status_class")
)

// httpDurationBuckets are latency boundaries in seconds
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	responseSize    metric.Int64Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var err error
	if m.requestTotal, err = meter.Int64Counter("http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"), metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency distribution in seconds"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...)); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	if m.responseSize, err = meter.Int64Histogram("http_server_response_size_bytes",
		metric.WithDescription("HTTP response body size in bytes"), metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 5000, 10000, 50000, 100000, 1000000)); err != nil {
		return nil, fmt.Errorf("create response size histogram: %w", err)
	}
	if m.activeRequests, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"), metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("create active requests counter: %w", err)
	}
	return m, nil
}

// HTTPMetrics returns a middleware recording request metrics on the
// provider's "http.server" meter. It is a pass-through when metrics are off.
func HTTPMetrics(provider *telemetry.MeterProvider, logger *zap.Logger) gin.HandlerFunc {
	if provider == nil || !provider.IsEnabled() {
		return passThrough
	}
	metrics, err := newHTTPMetrics(provider.Meter("http.server"))
	if err != nil {
		if logger != nil {
			logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}
	return httpMetricsMiddleware(metrics)
}

// HTTPMetricsWithMeter returns HTTP metrics middleware using an existing meter.
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled || meter == nil {
		return passThrough
	}
	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		return passThrough
	}
	return httpMetricsMiddleware(metrics)
}

func passThrough(c *gin.Context) {
	c.Next()
}

func httpMetricsMiddleware(metrics *httpMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		metrics.activeRequests.Add(ctx, 1)
		c.Next()
		metrics.activeRequests.Add(ctx, -1)

		recordHTTPMetrics(ctx, metrics, c.Request.Method, getRoutePattern(c),
			c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}

func recordHTTPMetrics(
	ctx context.Context,
	metrics *httpMetrics,
	method, route string,
	statusCode int,
	duration time.Duration,
	responseSize int,
) {
	metrics.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attrHTTPMethod.String(method),
		attrHTTPRoute.String(route),
		attrHTTPStatusCode.Int(statusCode),
		attrHTTPStatusClass.String(HTTPMetricsStatusGroup(statusCode)),
	))

	// duration and size only carry method and route to keep cardinality low
	base := metric.WithAttributes(attrHTTPMethod.String(method), attrHTTPRoute.String(route))
	metrics.requestDuration.Record(ctx, duration.Seconds(), base)
	if responseSize > 0 {
		metrics.responseSize.Record(ctx, int64(responseSize), base)
	}
}

// getRoutePattern returns the matched route (e.g. "/api/v1/sales/invoices/:id")
// rather than the raw path.
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// HTTPMetricsStatusGroup groups a status code into its class.
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
