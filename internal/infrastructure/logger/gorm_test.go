package logger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	_ gormlogger.Interface = (*GormLogger)(nil)
	_ gorm.ParamsFilter    = (*GormLogger)(nil)
)

const stockUpdate = "UPDATE products SET stock = stock - 3 WHERE id = 'p-1' AND stock >= 3"

func observed(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func TestGormLogger_Trace(t *testing.T) {
	statement := func() (string, int64) { return stockUpdate, 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		age     time.Duration
		err     error
		wantMsg string
		wantLvl zapcore.Level
	}{
		{name: "failure", level: gormlogger.Error, err: errors.New("deadlock detected"), wantMsg: "sql failed", wantLvl: zapcore.ErrorLevel},
		{name: "wrapped failure", level: gormlogger.Error, err: fmt.Errorf("decrement: %w", errors.New("lock timeout")), wantMsg: "sql failed", wantLvl: zapcore.ErrorLevel},
		{name: "not found skipped", level: gormlogger.Info, err: gormlogger.ErrRecordNotFound},
		{name: "not found when asked", level: gormlogger.Error, opts: []GormLoggerOption{WithIgnoreRecordNotFoundError(false)}, err: gormlogger.ErrRecordNotFound, wantMsg: "sql failed", wantLvl: zapcore.ErrorLevel},
		{name: "cancelled request", level: gormlogger.Warn, err: context.Canceled, wantMsg: "sql cancelled", wantLvl: zapcore.WarnLevel},
		{name: "cancelled below warn", level: gormlogger.Error, err: context.DeadlineExceeded},
		{name: "slow", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(10 * time.Millisecond)}, age: time.Second, wantMsg: "slow sql", wantLvl: zapcore.WarnLevel},
		{name: "slow disabled", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(0)}, age: time.Hour},
		{name: "error beats slow", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(time.Millisecond)}, age: time.Second, err: errors.New("boom"), wantMsg: "sql failed", wantLvl: zapcore.ErrorLevel},
		{name: "every statement at info", level: gormlogger.Info, wantMsg: "sql", wantLvl: zapcore.DebugLevel},
		{name: "fast statement at warn", level: gormlogger.Warn},
		{name: "silent", level: gormlogger.Silent, err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, logs := observed(tt.level, tt.opts...)
			gl.Trace(context.Background(), time.Now().Add(-tt.age), statement, tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, logs.Len())
				return
			}
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, tt.wantLvl, entry.Level)
			assert.Equal(t, stockUpdate, entry.ContextMap()["sql"])
			assert.Equal(t, int64(1), entry.ContextMap()["rows"])
		})
	}
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	gl, logs := observed(gormlogger.Info)

	ctx := WithRequestID(context.Background(), "caja1-req-9")
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "caja1-req-9", logs.All()[0].ContextMap()["request_id"])
	assert.Equal(t, "gorm", logs.All()[0].LoggerName)
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	const insert = "INSERT INTO customers (name,document_number) VALUES ($1,$2)"

	redacting := NewGormLogger(zap.NewNop(), gormlogger.Info)
	sql, params := redacting.ParamsFilter(context.Background(), insert, "Ana", "0912345678")
	assert.Equal(t, insert, sql)
	assert.Nil(t, params)

	verbose := NewGormLogger(zap.NewNop(), gormlogger.Info, WithSQLParams(true))
	_, params = verbose.ParamsFilter(context.Background(), insert, "Ana", "0912345678")
	assert.Equal(t, []any{"Ana", "0912345678"}, params)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info, WithSlowThreshold(time.Second), WithSQLParams(true))
	quieter, ok := gl.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, gormlogger.Error, quieter.level)
	assert.Equal(t, time.Second, quieter.slowThreshold)
	assert.True(t, quieter.withParams)
}

func TestGormLogger_LevelMethods(t *testing.T) {
	gl, logs := observed(gormlogger.Warn)

	gl.Info(context.Background(), "migrated %d tables", 8)
	gl.Warn(context.Background(), "pool at %d%%", 90)
	gl.Error(context.Background(), "reconnect failed: %s", "refused")

	var msgs []string
	for _, e := range logs.All() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"pool at 90%", "reconnect failed: refused"}, msgs)
}

func TestMapGormLogLevel(t *testing.T) {
	for in, want := range map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
		"":       gormlogger.Warn,
		"trace":  gormlogger.Warn,
	} {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
