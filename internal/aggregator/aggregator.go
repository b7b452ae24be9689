package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/warp/internal/model"
)

// Stats is a point-in-time snapshot of what the watch pipeline has seen.
type Stats struct {
	Uptime        string           `json:"uptime"`
	TotalEvents   int64            `json:"total_events"`
	EPS           float64          `json:"eps"`
	KindCounts    map[string]int64 `json:"kind_counts"`
	Builds        int              `json:"builds"`
	DroppedEvents int64            `json:"dropped_events"`
}

// Aggregator subscribes to the Hub and keeps running totals of parse
// events, for the dashboard's stats endpoint.
type Aggregator struct {
	mu          sync.RWMutex
	startTime   time.Time
	totalEvents int64
	kindCounts  map[string]int64
	window      []time.Time // timestamps for events/sec over the last 5 seconds
	dropped     func() int64
	buildCount  func() int
	events      <-chan model.Event
}

// New creates an Aggregator reading from the given Hub subscriber channel.
// droppedFn and buildCountFn provide live values from the hub and the
// processor respectively.
func New(events <-chan model.Event, droppedFn func() int64, buildCountFn func() int) *Aggregator {
	return &Aggregator{
		startTime:  time.Now(),
		kindCounts: make(map[string]int64),
		dropped:    droppedFn,
		buildCount: buildCountFn,
		events:     events,
	}
}

// Snapshot returns the current totals.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[string]int64)
	for k, v := range a.kindCounts {
		counts[k] = v
	}

	// Events per second over the sliding window.
	cutoff := time.Now().Add(-5 * time.Second)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:        time.Since(a.startTime).Truncate(time.Second).String(),
		TotalEvents:   a.totalEvents,
		EPS:           float64(recent) / 5.0,
		KindCounts:    counts,
		Builds:        a.buildCount(),
		DroppedEvents: a.dropped(),
	}
}

// Start begins consuming events. Blocks until the context is cancelled or
// the subscription closes.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			a.record(ev)
		case <-ticker.C:
			a.prune()
		}
	}
}

func (a *Aggregator) record(ev model.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.kindCounts[ev.Kind]++
	a.window = append(a.window, time.Now())
}

// prune drops window timestamps older than 5 seconds.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-5 * time.Second)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}
