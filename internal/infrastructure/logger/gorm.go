package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM output through zap with the request id attached.
// Bound parameters are left out of logged SQL unless WithSQLParams is set:
// customer documents, emails and invoice notes travel as parameters.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
	withParams    bool
}

type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a query is logged as slow.
// Zero disables slow query logging.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = threshold }
}

// WithIgnoreRecordNotFoundError controls whether lookups that find nothing
// are logged as errors. They are ignored by default; the repositories turn
// them into NOT_FOUND domain errors.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = !ignore }
}

// WithSQLParams logs SQL with parameter values inlined.
func WithSQLParams(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.withParams = enabled }
}

func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		Enrich(ctx, l.logger).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		Enrich(ctx, l.logger).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		Enrich(ctx, l.logger).Sugar().Errorf(msg, data...)
	}
}

// ParamsFilter implements gorm's ParamsFilter. Returning no params makes
// GORM render the statement with its placeholders.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.withParams {
		return sql, params
	}
	return sql, nil
}

// Trace logs one finished statement. Errors win over slowness, and
// cancelled contexts (a client hanging up mid-sale) are warnings.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold
	log := Enrich(ctx, l.logger)
	fields := func() []zap.Field {
		sql, rows := fc()
		return []zap.Field{zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed)}
	}

	switch {
	case err != nil && errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound:
		return
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		if l.level >= gormlogger.Warn {
			log.Warn("sql cancelled", append(fields(), zap.Error(err))...)
		}
	case err != nil:
		if l.level >= gormlogger.Error {
			log.Error("sql failed", append(fields(), zap.Error(err))...)
		}
	case slow && l.level >= gormlogger.Warn:
		log.Warn("slow sql", append(fields(), zap.Duration("threshold", l.slowThreshold))...)
	case l.level >= gormlogger.Info:
		log.Debug("sql", fields()...)
	}
}

// MapGormLogLevel maps LOG_LEVEL onto GORM's levels. Debug and info both
// trace every statement; anything unrecognised keeps warnings.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
