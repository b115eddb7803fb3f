package events

import (
	"context"
	"log/slog"
	"sync"
)

// Handler consumes a published event. Returned errors (and panics) are logged
// and swallowed: a broken subscriber must never fail the publishing operation.
type Handler func(ctx context.Context, event Event) error

// Bus is a synchronous in-process publish/subscribe bus keyed by event name.
// Publish returns only after every current subscriber has been invoked; there
// is no queue and no delivery guarantee across restarts.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[uint64]Handler
	nextID   uint64

	logger  *slog.Logger
	metrics *Metrics
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithLogger sets the logger used for handler failures.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics attaches publish/failure counters.
func WithMetrics(m *Metrics) BusOption {
	return func(b *Bus) {
		b.metrics = m
	}
}

// NewBus constructs an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		handlers: make(map[string]map[uint64]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for the named event and returns the function
// that removes exactly this registration. Removing the last handler for a name
// drops the name's entry so transient event kinds don't leak map entries.
func (b *Bus) Subscribe(name string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.handlers[name]
	if !ok {
		set = make(map[uint64]Handler)
		b.handlers[name] = set
	}
	id := b.nextID
	b.nextID++
	set[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if set, ok := b.handlers[name]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(b.handlers, name)
				}
			}
		})
	}
}

// Publish dispatches event to every handler currently subscribed to its name.
// Each handler runs synchronously; a missing subscription is a silent no-op.
func (b *Bus) Publish(ctx context.Context, event Event) {
	name := event.Name()

	b.mu.RLock()
	set := b.handlers[name]
	snapshot := make([]Handler, 0, len(set))
	for _, h := range set {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	if b.metrics != nil {
		b.metrics.Published.WithLabelValues(name).Inc()
	}

	if len(snapshot) == 0 {
		b.logger.DebugContext(ctx, "no subscribers for event", "event", name)
		return
	}

	for _, h := range snapshot {
		b.dispatch(ctx, name, event, h)
	}
}

// dispatch invokes one handler, containing panics and logging failures so the
// remaining handlers still run.
func (b *Bus) dispatch(ctx context.Context, name string, event Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.HandlerFailures.WithLabelValues(name).Inc()
			}
			b.logger.ErrorContext(ctx, "event handler panicked",
				"event", name,
				"panic", r,
			)
		}
	}()

	if err := h(ctx, event); err != nil {
		if b.metrics != nil {
			b.metrics.HandlerFailures.WithLabelValues(name).Inc()
		}
		b.logger.ErrorContext(ctx, "event handler failed",
			"event", name,
			"error", err,
		)
	}
}

// SubscriberCount reports the number of handlers registered for a name.
// Exposed for tests and shutdown assertions.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}
