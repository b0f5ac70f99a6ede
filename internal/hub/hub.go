// Package hub hands the latest rendered state from the frame loop to other
// goroutines. It holds a single slot: publishing overwrites, readers always
// see the newest value and never slow the frame loop down.
package hub

import (
	"sync"

	"github.com/ayusman/airkeys/internal/session"
)

// Snapshot is one published frame.
type Snapshot struct {
	Seq  uint64
	View session.View
	// JPEG is the encoded rendered frame, if the publisher produced one.
	JPEG []byte
}

// Hub is a single-slot latest-value store with change notification.
type Hub struct {
	mu     sync.RWMutex
	latest Snapshot
	subs   map[chan struct{}]struct{}
	closed bool
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{subs: make(map[chan struct{}]struct{})}
}

// Publish replaces the slot and wakes every subscriber. It never blocks.
func (h *Hub) Publish(v session.View, jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.latest = Snapshot{Seq: h.latest.Seq + 1, View: v, JPEG: jpeg}
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Already signalled; the reader will pick up the newest value.
		}
	}
}

// Latest returns the most recent snapshot. Seq is 0 before the first publish.
func (h *Hub) Latest() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Subscribe returns a channel that receives a signal after each publish
// (coalesced) and a cancel function. The channel is closed on cancel or when
// the hub closes.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Close closes every subscription. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
	}
	h.subs = nil
}
