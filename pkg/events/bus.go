package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultHistorySize bounds how many events a MemoryBus keeps.
const DefaultHistorySize = 1000

// Bus provides publish/subscribe for console events.
type Bus interface {
	Publish(event Event)
	Subscribe(filter ...EventType) <-chan Event
	Unsubscribe(ch <-chan Event)
	History(since time.Time) []Event
}

type subscriber struct {
	ch     chan Event
	filter map[EventType]bool // empty means all events
}

// MemoryBus is an in-memory Bus with a bounded history.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	history     []Event
	limit       int
}

// NewMemoryBus creates a bus that keeps at most limit events; limit <= 0
// means DefaultHistorySize.
func NewMemoryBus(limit int) *MemoryBus {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &MemoryBus{
		history: make([]Event, 0, min(limit, 256)),
		limit:   limit,
	}
}

func (b *MemoryBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Sends never block, so delivering under the lock keeps Unsubscribe from
	// closing a channel mid-send.
	b.mu.Lock()
	defer b.mu.Unlock()

	b.history = append(b.history, event)
	if over := len(b.history) - b.limit; over > 0 {
		b.history = append(b.history[:0], b.history[over:]...)
	}
	for _, sub := range b.subscribers {
		if len(sub.filter) > 0 && !sub.filter[event.Type] {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// slow subscriber, drop
		}
	}
}

func (b *MemoryBus) Subscribe(filter ...EventType) <-chan Event {
	ch := make(chan Event, 64)
	sub := subscriber{ch: ch}
	if len(filter) > 0 {
		sub.filter = make(map[EventType]bool, len(filter))
		for _, f := range filter {
			sub.filter[f] = true
		}
	}

	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	b.mu.Unlock()

	return ch
}

func (b *MemoryBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub.ch == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

func (b *MemoryBus) History(since time.Time) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result []Event
	for _, e := range b.history {
		if !e.Timestamp.Before(since) {
			result = append(result, e)
		}
	}
	return result
}

// Last returns up to n of the most recent events matching the filter, oldest
// first.
func (b *MemoryBus) Last(n int, filter ...EventType) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	want := make(map[EventType]bool, len(filter))
	for _, f := range filter {
		want[f] = true
	}
	var out []Event
	for i := len(b.history) - 1; i >= 0 && len(out) < n; i-- {
		e := b.history[i]
		if len(want) > 0 && !want[e.Type] {
			continue
		}
		out = append(out, e)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Log forwards events to logger until ctx is done or the subscription is
// closed. Failed events are logged at warn level, the rest at debug.
func Log(ctx context.Context, bus Bus, logger *slog.Logger) {
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			attrs := []any{"type", string(e.Type), "command", e.Command}
			if e.Duration > 0 {
				attrs = append(attrs, "duration", e.Duration)
			}
			if e.Detail != "" {
				attrs = append(attrs, "detail", e.Detail)
			}
			if e.Failed() {
				logger.Warn("console event", append(attrs, "error", e.Err)...)
				continue
			}
			logger.Debug("console event", attrs...)
		}
	}
}
