package production

import (
	"errors"
	"testing"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductionRecord(t *testing.T) {
	productID := uuid.New()

	r, err := NewProductionRecord(productID, " L-2026-001 ", 48, "horno 2")
	require.NoError(t, err)
	assert.Equal(t, "L-2026-001", r.BatchNumber)
	assert.Equal(t, RecordStatusInProcess, r.Status)
	assert.Len(t, r.GetDomainEvents(), 1)

	tests := []struct {
		name      string
		productID uuid.UUID
		batch     string
		qty       int64
	}{
		{"missing product", uuid.Nil, "L1", 1},
		{"missing batch", productID, "  ", 1},
		{"zero quantity", productID, "L1", 0},
		{"negative quantity", productID, "L1", -5},
		{"quantity above one batch", productID, "L1", 1_000_000_001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProductionRecord(tt.productID, tt.batch, tt.qty, "")
			assert.Error(t, err)
		})
	}
}

func TestProductionRecord_Complete(t *testing.T) {
	r, err := NewProductionRecord(uuid.New(), "L1", 24, "")
	require.NoError(t, err)
	r.ClearDomainEvents()

	require.NoError(t, r.Complete())
	assert.Equal(t, RecordStatusCompleted, r.Status)
	require.NotNil(t, r.CompletedAt)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	completed := events[0].(*ProductionCompletedEvent)
	assert.Equal(t, int64(24), completed.Quantity)
	assert.Equal(t, RecordStatusInProcess, completed.Previous.Status)
	assert.Equal(t, RecordStatusCompleted, completed.Current.Status)

	err = r.Complete()
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.True(t, errors.Is(r.Cancel(), shared.ErrInvalidState))
}

func TestProductionRecord_Cancel(t *testing.T) {
	r, err := NewProductionRecord(uuid.New(), "L1", 24, "")
	require.NoError(t, err)

	require.NoError(t, r.Cancel())
	assert.Equal(t, RecordStatusCancelled, r.Status)
	assert.NotNil(t, r.CancelledAt)
	assert.True(t, errors.Is(r.Complete(), shared.ErrInvalidState))
}
