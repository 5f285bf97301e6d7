package event

import (
	"sync"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/domain/shared"
)

// HandlerRegistry maps event types to handlers. Handlers registered without
// a type receive every event.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		byType: make(map[string][]shared.EventHandler),
	}
}

// Register adds handler for the given types, or for all events when none
// are given. Registering the same handler twice for a type is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		if !containsHandler(r.wildcard, handler) {
			r.wildcard = append(r.wildcard, handler)
		}
		return
	}
	for _, t := range eventTypes {
		if !containsHandler(r.byType[t], handler) {
			r.byType[t] = append(r.byType[t], handler)
		}
	}
}

// Unregister removes handler from every type and from the wildcard list
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = withoutHandler(r.wildcard, handler)
	for t, hs := range r.byType {
		hs = withoutHandler(hs, handler)
		if len(hs) == 0 {
			delete(r.byType, t)
			continue
		}
		r.byType[t] = hs
	}
}

// GetHandlers returns the handlers for eventType followed by the wildcard
// handlers. The returned slice is a copy.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	for _, h := range r.wildcard {
		if !containsHandler(typed, h) {
			out = append(out, h)
		}
	}
	return out
}

// GetAllHandlers returns every distinct registered handler
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shared.EventHandler, 0, len(r.wildcard))
	for _, h := range r.wildcard {
		if !containsHandler(out, h) {
			out = append(out, h)
		}
	}
	for _, hs := range r.byType {
		for _, h := range hs {
			if !containsHandler(out, h) {
				out = append(out, h)
			}
		}
	}
	return out
}

func containsHandler(hs []shared.EventHandler, target shared.EventHandler) bool {
	for _, h := range hs {
		if h == target {
			return true
		}
	}
	return false
}

func withoutHandler(hs []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := hs[:0:0]
	for _, h := range hs {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
