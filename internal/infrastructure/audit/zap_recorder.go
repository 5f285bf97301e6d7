package audit

import (
	"context"

	appaudit "github.com/bcaiza/invoicePtoducts-sub000/internal/application/audit"
	"go.uber.org/zap"
)

// ZapRecorder writes audit entries as structured log lines on a dedicated
// "audit" logger
type ZapRecorder struct {
	logger *zap.Logger
}

// NewZapRecorder creates a recorder on top of logger
func NewZapRecorder(logger *zap.Logger) *ZapRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapRecorder{logger: logger.Named("audit")}
}

// Record logs the entry at info level
func (r *ZapRecorder) Record(_ context.Context, entry appaudit.Entry) error {
	fields := []zap.Field{
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_type", entry.AggregateType),
		zap.String("aggregate_id", entry.AggregateID.String()),
		zap.Time("occurred_at", entry.OccurredAt),
	}
	if entry.RequestID != "" {
		fields = append(fields, zap.String("request_id", entry.RequestID))
	}
	if entry.Before != nil {
		fields = append(fields, zap.Any("before", entry.Before))
	}
	if entry.After != nil {
		fields = append(fields, zap.Any("after", entry.After))
	}
	r.logger.Info("audit", fields...)
	return nil
}

var _ appaudit.Recorder = (*ZapRecorder)(nil)
