package hub

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/atikulmunna/warp/internal/model"
)

const subscriberBuffer = 1024

// Hub fans parse events out to all subscribers (websocket clients, the
// aggregator). Events come in on a single input channel fed by the watch
// pipeline; each subscriber gets a copy of every event.
type Hub struct {
	input       <-chan model.Event
	mu          sync.RWMutex
	subscribers []chan model.Event
	dropped     atomic.Int64
}

// New creates a Hub reading from the given event channel.
func New(input <-chan model.Event) *Hub {
	return &Hub{input: input}
}

// Subscribe returns a buffered channel that will receive every event.
// The channel is closed when the hub shuts down.
func (h *Hub) Subscribe() <-chan model.Event {
	ch := make(chan model.Event, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Dropped returns the total number of events dropped for slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Start begins broadcasting. Blocks until the context is cancelled or the
// input channel is closed.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.input:
			if !ok {
				return
			}
			h.broadcast(ev)
		}
	}
}

// broadcast sends an event to all subscribers, dropping it for any whose
// buffer is full.
func (h *Hub) broadcast(ev model.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			log.Printf("hub: dropped event for slow consumer (total dropped: %d)", h.dropped.Add(1))
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
