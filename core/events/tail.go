package events

import (
	"sync"

	"relaychain/core/types"
)

// Renderer is implemented by event payloads that can render themselves into a
// broadcastable record. Every event type in this package satisfies it.
type Renderer interface {
	Event() *types.Event
}

// Tail retains a bounded in-memory window of rendered events for RPC
// consumers and indexer catch-up.
type Tail struct {
	mu    sync.RWMutex
	limit int
	items []*types.Event
}

// NewTail creates a tail retaining at most limit events.
func NewTail(limit int) *Tail {
	if limit <= 0 {
		limit = 256
	}
	return &Tail{limit: limit}
}

// Emit implements the Emitter interface.
func (t *Tail) Emit(evt Event) {
	rendered, ok := evt.(Renderer)
	if !ok {
		return
	}
	record := rendered.Event()
	if record == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, record)
	if len(t.items) > t.limit {
		t.items = t.items[len(t.items)-t.limit:]
	}
}

// Latest returns up to n of the most recent events, oldest first.
func (t *Tail) Latest(n int) []*types.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 || n > len(t.items) {
		n = len(t.items)
	}
	out := make([]*types.Event, n)
	copy(out, t.items[len(t.items)-n:])
	return out
}

// MultiEmitter fans a single emission out to several emitters.
type MultiEmitter []Emitter

// Emit implements the Emitter interface.
func (m MultiEmitter) Emit(evt Event) {
	for _, emitter := range m {
		if emitter != nil {
			emitter.Emit(evt)
		}
	}
}
