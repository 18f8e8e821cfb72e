package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the traceability engine.
type Metrics struct {
	EventsEmitted prometheus.Counter
	FanoutLinks   prometheus.Counter
	EmitFailures  prometheus.Counter
	ActorsCreated prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		EventsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traceability_events_emitted_total",
			Help: "Total number of events durably committed",
		}),
		FanoutLinks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traceability_fanout_links_total",
			Help: "Total number of fan-out link rows written",
		}),
		EmitFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traceability_emit_failures_total",
			Help: "Total number of failed emit calls",
		}),
		ActorsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "traceability_actors_created_total",
			Help: "Total number of actors created on first use",
		}),
	}
}

// IncrementEventsEmitted records one committed event with its link count.
func (m *Metrics) IncrementEventsEmitted(links int) {
	m.EventsEmitted.Inc()
	m.FanoutLinks.Add(float64(links))
}

// IncrementEmitFailures records one failed emit call.
func (m *Metrics) IncrementEmitFailures() {
	m.EmitFailures.Inc()
}

// IncrementActorsCreated records one lazily created actor.
func (m *Metrics) IncrementActorsCreated() {
	m.ActorsCreated.Inc()
}
