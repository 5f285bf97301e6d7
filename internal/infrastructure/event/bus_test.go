package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Invoice", uuid.New()),
	}
}

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, evt)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	created := newRecordingHandler("InvoiceCreated")
	all := newRecordingHandler()
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("InvoiceCreated"),
		newTestEvent("InvoiceDeleted"),
	))

	assert.Equal(t, 1, created.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler("InvoiceCreated")
	bus.Subscribe(h, "ProductionCompleted")

	_ = bus.Publish(context.Background(), newTestEvent("InvoiceCreated"), newTestEvent("ProductionCompleted"))

	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_HandlerErrorIsSwallowed(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newRecordingHandler("InvoiceCreated")
	failing.err = errors.New("audit sink down")
	next := newRecordingHandler("InvoiceCreated")
	bus.Subscribe(failing)
	bus.Subscribe(next)

	err := bus.Publish(context.Background(), newTestEvent("InvoiceCreated"))

	require.NoError(t, err)
	assert.Equal(t, 1, next.count(), "later handlers still run")
	assert.Equal(t, int64(1), bus.Failures())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}

func TestInMemoryEventBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := newRecordingHandler("InvoiceDeleted")
	panicking.panicWith = "boom"
	next := newRecordingHandler("InvoiceDeleted")
	bus.Subscribe(panicking)
	bus.Subscribe(next)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("InvoiceDeleted"))
	})
	assert.Equal(t, 1, next.count())
	assert.Equal(t, int64(1), bus.Failures())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := newRecordingHandler("InvoiceCreated")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	_ = bus.Publish(context.Background(), newTestEvent("InvoiceCreated"))

	assert.Zero(t, h.count())
}

func TestInMemoryEventBus_NilEventsAreSkipped(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler()
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), nil, newTestEvent("InvoiceCreated")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	assert.False(t, bus.IsRunning())
	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.IsRunning())
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.IsRunning())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newRecordingHandler("InvoiceCreated")
	bus.Subscribe(h)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("InvoiceCreated"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, h.count())
}
