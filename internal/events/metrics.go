package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the event bus.
type Metrics struct {
	// Events published by name, whether or not anyone was listening.
	Published *prometheus.CounterVec

	// Handler errors and panics by event name. A non-zero rate means some
	// cache invalidation may have been missed until the next full clear.
	HandlerFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the event bus metrics.
// Call once per process; repeated registration panics by prometheus design.
func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_events_published_total",
			Help: "Total domain events published by event name",
		}, []string{"event"}),

		HandlerFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_event_handler_failures_total",
			Help: "Total event handler errors and panics by event name",
		}, []string{"event"}),
	}
}
