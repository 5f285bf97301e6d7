package telemetry

import (
	"context"
	"testing"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type bakedGood struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Stock int64
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&bakedGood{}))
	return db
}

func TestRegisterDBTracing_DisabledRegistersNothing(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{Enabled: true}, zap.NewNop()))

	assert.Nil(t, db.Callback().Query().Get("pos_slow_query:after_query"))
}

func TestSlowQueryCallbacks_AnnotateSpan(t *testing.T) {
	db := openSQLite(t)
	// a negative threshold flags every statement
	require.NoError(t, registerSlowQueryCallbacks(db, -1))

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "create product")
	require.NoError(t, db.WithContext(ctx).Create(&bakedGood{Name: "Baguette", Stock: 10}).Error)
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	attrs := spans[0].Attributes
	assert.Contains(t, attrs, attribute.Bool("db.slow_query", true))
	assert.Contains(t, attrs, attribute.String("db.sql.table", "baked_goods"))
}

func TestSlowQueryCallbacks_NotFoundIsNotAnError(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, registerSlowQueryCallbacks(db, -1))

	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "find product")
	var got bakedGood
	err := db.WithContext(ctx).First(&got, 999).Error
	span.End()

	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.Len(t, exp.GetSpans(), 1)
	assert.Empty(t, exp.GetSpans()[0].Events)
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	db := openSQLite(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(7)

	reader, provider := newTestMeter(t)
	reg, err := RegisterDBPoolMetrics(provider.Meter("test"), sqlDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Unregister() })

	got := collect(t, reader)
	maxOpen, ok := got["pos_db_pool_max_open"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxOpen.DataPoints, 1)
	assert.Equal(t, int64(7), maxOpen.DataPoints[0].Value)

	conns, ok := got["pos_db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, conns.DataPoints, 2, "in_use and idle")
}
