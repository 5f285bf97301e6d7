package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/audit"
	catalogapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/catalog"
	partnerapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/partner"
	productionapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/production"
	salesapp "github.com/bcaiza/invoicePtoducts-sub000/internal/application/sales"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/pricing"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/audit"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/auth"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/cache"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/event"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/logger"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/persistence"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/telemetry"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/handler"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/middleware"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/router"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// A bootstrap logger reports telemetry setup; the final logger may tee
	// into the OTLP log pipeline.
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, logProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("promotion_policy", cfg.Pricing.PromotionPolicy),
		zap.String("tax_rate", cfg.Pricing.TaxRate.String()),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingEnabled {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQLParams(cfg.Telemetry.DBLogFullSQL))
	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	db, err := persistence.Open(connectCtx, &cfg.Database, gormLog)
	cancelConnect()
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	var poolMetrics metric.Registration
	if meterProvider.IsEnabled() {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get sql.DB", zap.Error(err))
		}
		reg, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("pos/db"), sqlDB)
		if err != nil {
			log.Fatal("Failed to register database pool metrics", zap.Error(err))
		}
		poolMetrics = reg
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	bindingRepo := persistence.NewGormProductUnitRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	recordRepo := persistence.NewGormProductionRecordRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Events: audit trail and sales metrics observe committed changes
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(auditapp.NewHandler(audit.NewZapRecorder(log.Named("audit")), log).
		WithRequestID(logger.GetRequestID))

	var salesMetrics *telemetry.SalesMetrics
	if meterProvider.IsEnabled() {
		salesMetrics, err = telemetry.NewSalesMetrics(meterProvider.Meter("pos/sales"), productRepo, log)
		if err != nil {
			log.Fatal("Failed to create sales metrics", zap.Error(err))
		}
		eventBus.Subscribe(salesMetrics)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Idempotency store: Redis when configured, in-memory otherwise
	idemStore, err := cache.NewIdempotencyStore(ctx, cfg.Redis, cache.StoreOptions{
		Fallback: !cfg.IsProduction(),
		Logger:   log,
	})
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	healthDeps := map[string]handler.Pinger{"database": db}
	if p, ok := idemStore.(handler.Pinger); ok {
		healthDeps["idempotency"] = p
	}

	// Pricing
	policy, err := pricing.ParseStackingPolicy(cfg.Pricing.PromotionPolicy)
	if err != nil {
		log.Fatal("Invalid promotion policy", zap.Error(err))
	}
	assembler := pricing.NewInvoiceAssembler(
		pricing.NewUnitConversionService(),
		pricing.NewPromotionEngine(policy),
		cfg.Pricing.TaxRate,
	)

	// Application services
	coordinator := salesapp.NewStockFulfillmentCoordinator(txScope, assembler, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, eventBus, log)
	unitService := catalogapp.NewUnitService(unitRepo)
	bindingService := catalogapp.NewBindingService(productRepo, unitRepo, bindingRepo, txScope)
	promotionService := catalogapp.NewPromotionService(promotionRepo, productRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	recordService := productionapp.NewRecordService(recordRepo, productRepo, coordinator, eventBus, log)
	invoiceService := salesapp.NewInvoiceService(
		invoiceRepo,
		customerRepo,
		salesapp.CatalogReader{Products: productRepo, Bindings: bindingRepo, Promotions: promotionRepo},
		coordinator,
		assembler,
		eventBus,
		salesapp.InvoiceServiceOptions{
			TaxEnabledDefault: cfg.Pricing.TaxEnabledDefault,
			Idempotency:       idemStore,
			IdempotencyTTL:    cfg.Idempotency.TTL,
		},
		log,
	)

	// Routes
	catalogRoutes := router.NewDomainGroup("/catalog").Mount(
		handler.NewProductHandler(productService),
		handler.NewUnitHandler(unitService),
		handler.NewBindingHandler(bindingService),
		handler.NewPromotionHandler(promotionService),
	)
	salesRoutes := router.NewDomainGroup("/sales").Mount(handler.NewInvoiceHandler(invoiceService))
	partnerRoutes := router.NewDomainGroup("/partner").Mount(handler.NewCustomerHandler(customerService))
	productionRoutes := router.NewDomainGroup("/production").Mount(handler.NewProductionHandler(recordService))

	var verifier middleware.TokenVerifier
	if cfg.Auth.Enabled {
		verifier = auth.NewVerifier(cfg.Auth)
	}

	engine, err := router.NewEngine(router.EngineOptions{
		ServiceName:        cfg.Telemetry.ServiceName,
		HTTP:               cfg.HTTP,
		Logger:             log,
		TracingEnabled:     cfg.Telemetry.Enabled,
		MeterProvider:      meterProvider,
		ProfilingEnabled:   cfg.Telemetry.ProfilingEnabled,
		Verifier:           verifier,
		IdempotencyEnabled: cfg.Idempotency.Enabled,
	},
		handler.NewHealthHandler(healthDeps).Check,
		catalogRoutes, salesRoutes, partnerRoutes, productionRoutes,
	)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if salesMetrics != nil {
		if err := salesMetrics.Close(); err != nil {
			log.Error("Error closing sales metrics", zap.Error(err))
		}
	}
	if poolMetrics != nil {
		if err := poolMetrics.Unregister(); err != nil {
			log.Error("Error unregistering pool metrics", zap.Error(err))
		}
	}
	if closer, ok := idemStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}
	shutdownTelemetry(shutdownCtx, log, tracerProvider, meterProvider, logProvider, profiler)

	log.Info("Server exited gracefully")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTelemetry flushes exporters; the log provider goes last so the
// final entries above still reach the collector.
func shutdownTelemetry(ctx context.Context, log *zap.Logger, tp, mp, lp shutdowner, profiler *telemetry.Profiler) {
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}
}
