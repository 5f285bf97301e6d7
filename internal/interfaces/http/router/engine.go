package router

import (
	"fmt"
	"net/http"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/logger"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/telemetry"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/dto"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineOptions configures the middleware chain of the HTTP engine
type EngineOptions struct {
	ServiceName string
	HTTP        config.HTTPConfig
	Logger      *zap.Logger

	TracingEnabled   bool
	TracerProvider   trace.TracerProvider
	MeterProvider    *telemetry.MeterProvider
	ProfilingEnabled bool

	// Verifier enables bearer authentication on the API group when set
	Verifier middleware.TokenVerifier
	// IdempotencyEnabled accepts the Idempotency-Key header
	IdempotencyEnabled bool
}

// NewEngine builds a gin engine with the global middleware chain, a
// ROUTE_NOT_FOUND fallback and the versioned API group protected by the
// request-scoped middleware. Health is served at /health and under the API
// prefix.
func NewEngine(opts EngineOptions, health gin.HandlerFunc, domains ...*DomainGroup) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			return nil, fmt.Errorf("set trusted proxies: %w", err)
		}
	}

	cors, err := middleware.CORS(opts.HTTP)
	if err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName:    opts.ServiceName,
			Enabled:        opts.TracingEnabled,
			TracerProvider: opts.TracerProvider,
		}),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log, "/health", "/api/v1/health"),
		middleware.HTTPMetrics(opts.MeterProvider, log),
		middleware.Secure(opts.HTTP),
		cors,
		middleware.BodyLimit(opts.HTTP.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound,
			"Route "+c.Request.Method+" "+c.Request.URL.Path+" not found",
			middleware.GetRequestID(c),
		))
	})

	if health != nil {
		engine.GET("/health", health)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if opts.Verifier != nil {
		r.Use(middleware.JWTAuth(middleware.DefaultJWTConfig(opts.Verifier, log)))
	}
	if opts.IdempotencyEnabled {
		r.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = opts.ProfilingEnabled
	r.Use(middleware.TracingAttributeInjector(), middleware.ProfilingWithConfig(profiling))

	if health != nil {
		r.Register(NewDomainGroup("/health").GET("", health))
	}
	for _, d := range domains {
		r.Register(d)
	}
	r.Setup()

	return engine, nil
}
