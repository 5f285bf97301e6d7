package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus a callback pair that
// flags statements slower than cfg.DBSlowQueryThresh on their span. Query
// variables are stripped unless cfg.DBLogFullSQL is set.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	if err := registerSlowQueryCallbacks(db, threshold); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, threshold) }

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("pos_slow_query:before_create", before) },
		func() error { return cb.Create().After("gorm:create").Register("pos_slow_query:after_create", after) },
		func() error { return cb.Query().Before("gorm:query").Register("pos_slow_query:before_query", before) },
		func() error { return cb.Query().After("gorm:query").Register("pos_slow_query:after_query", after) },
		func() error { return cb.Update().Before("gorm:update").Register("pos_slow_query:before_update", before) },
		func() error { return cb.Update().After("gorm:update").Register("pos_slow_query:after_update", after) },
		func() error { return cb.Delete().Before("gorm:delete").Register("pos_slow_query:before_delete", before) },
		func() error { return cb.Delete().After("gorm:delete").Register("pos_slow_query:after_delete", after) },
		func() error { return cb.Row().Before("gorm:row").Register("pos_slow_query:before_row", before) },
		func() error { return cb.Row().After("gorm:row").Register("pos_slow_query:after_row", after) },
		func() error { return cb.Raw().Before("gorm:raw").Register("pos_slow_query:before_raw", before) },
		func() error { return cb.Raw().After("gorm:raw").Register("pos_slow_query:after_raw", after) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		RecordError(span, tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
