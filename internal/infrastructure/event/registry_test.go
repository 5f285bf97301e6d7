package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_GetHandlers(t *testing.T) {
	r := NewHandlerRegistry()
	invoice := newRecordingHandler()
	audit := newRecordingHandler()
	r.Register(invoice, "InvoiceCreated", "InvoiceDeleted")
	r.Register(audit)

	hs := r.GetHandlers("InvoiceCreated")
	if assert.Len(t, hs, 2) {
		assert.Same(t, invoice, hs[0])
		assert.Same(t, audit, hs[1])
	}
	hs = r.GetHandlers("ProductionCompleted")
	if assert.Len(t, hs, 1) {
		assert.Same(t, audit, hs[0])
	}
}

func TestHandlerRegistry_DuplicateRegistration(t *testing.T) {
	r := NewHandlerRegistry()
	h := newRecordingHandler()
	r.Register(h, "InvoiceCreated")
	r.Register(h, "InvoiceCreated")
	r.Register(h)

	// typed and wildcard registration of the same handler still yields one delivery
	assert.Len(t, r.GetHandlers("InvoiceCreated"), 1)
	assert.Len(t, r.GetAllHandlers(), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	a := newRecordingHandler()
	b := newRecordingHandler()
	r.Register(a, "InvoiceCreated")
	r.Register(b, "InvoiceCreated")
	r.Register(a)

	r.Unregister(a)

	hs := r.GetHandlers("InvoiceCreated")
	if assert.Len(t, hs, 1) {
		assert.Same(t, b, hs[0])
	}
	assert.Len(t, r.GetAllHandlers(), 1)

	r.Unregister(b)
	assert.Empty(t, r.GetHandlers("InvoiceCreated"))
	assert.Empty(t, r.byType)
}
