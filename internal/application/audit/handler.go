package audit

import (
	"context"
	"time"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry is one recorded change of an aggregate
type Entry struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	RequestID     string    `json:"request_id,omitempty"`
	Before        any       `json:"before,omitempty"`
	After         any       `json:"after,omitempty"`
}

// Recorder persists audit entries. Implementations may be slow or fail;
// the handler never lets a failure reach the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// RequestIDFunc extracts the request id carried by ctx
type RequestIDFunc func(ctx context.Context) string

// Handler forwards before/after snapshots of committed changes to a Recorder
type Handler struct {
	recorder  Recorder
	requestID RequestIDFunc
	logger    *zap.Logger
}

// NewHandler creates an audit handler
func NewHandler(recorder Recorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{recorder: recorder, logger: logger}
}

// WithRequestID sets how the request id is read from the event context
func (h *Handler) WithRequestID(fn RequestIDFunc) *Handler {
	h.requestID = fn
	return h
}

// EventTypes returns nil so the handler receives every event
func (h *Handler) EventTypes() []string {
	return nil
}

// Handle records events that carry snapshots and ignores the rest
func (h *Handler) Handle(ctx context.Context, event shared.DomainEvent) error {
	snap, ok := event.(shared.SnapshotEvent)
	if !ok || h.recorder == nil {
		return nil
	}

	entry := Entry{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
		Before:        snap.Before(),
		After:         snap.After(),
	}
	if h.requestID != nil {
		entry.RequestID = h.requestID(ctx)
	}

	if err := h.recorder.Record(ctx, entry); err != nil {
		h.logger.Error("failed to record audit entry",
			zap.String("event_type", entry.EventType),
			zap.String("aggregate_id", entry.AggregateID.String()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*Handler)(nil)
