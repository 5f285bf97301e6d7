package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// MeterProvider owns the SDK meter provider and its shutdown
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// MeterOption customizes NewMeterProvider
type MeterOption func(*meterOptions)

type meterOptions struct {
	reader sdkmetric.Reader
}

// WithMetricReader replaces the periodic OTLP reader, e.g. with a
// sdkmetric.ManualReader in tests
func WithMetricReader(r sdkmetric.Reader) MeterOption {
	return func(o *meterOptions) { o.reader = r }
}

// NewMeterProvider installs a global meter provider exporting over OTLP
// gRPC. Requires both telemetry and metrics to be enabled.
func NewMeterProvider(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger, opts ...MeterOption) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled || !cfg.MetricsEnabled {
		logger.Info("Metrics disabled")
		return mp, nil
	}

	var o meterOptions
	for _, opt := range opts {
		opt(&o)
	}
	reader := o.reader
	if reader == nil {
		exporterOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
		if cfg.Insecure {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
		}
		exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		interval := cfg.MetricsInterval
		if interval <= 0 {
			interval = 60 * time.Second
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	mp.provider = sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp.provider)

	logger.Info("Metrics enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", cfg.MetricsInterval),
	)
	return mp, nil
}

// Meter returns a named meter; the global no-op meter when disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled reports whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Shutdown flushes and stops the provider
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.logger.Info("Meter provider shut down")
	return nil
}

// Attribute keys shared by the POS metrics and spans
var (
	AttrPaymentMethod = attribute.Key("pos.payment_method")
	AttrInvoiceStatus = attribute.Key("pos.invoice_status")
	AttrProductID     = attribute.Key("pos.product_id")
	AttrPoolState     = attribute.Key("db.pool.state")
)
