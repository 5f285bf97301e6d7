package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterDBPoolMetrics exports sql.DB pool statistics as observable
// gauges, read at collection time
func RegisterDBPoolMetrics(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("pos_db_pool_connections",
		metric.WithDescription("Database connections by state"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool connections gauge: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("pos_db_pool_max_open",
		metric.WithDescription("Maximum open database connections"),
		metric.WithUnit("{connections}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool max gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("pos_db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{waits}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool wait counter: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := sqlDB.Stats()
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrPoolState.String("idle")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, conns, maxOpen, waits)
}
