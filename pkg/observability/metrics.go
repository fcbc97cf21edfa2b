package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus instruments. A nil *Metrics is a
// valid no-op receiver so the engine never has to branch on observability
// being configured.
type Metrics struct {
	batchesStarted   prometheus.Counter
	batchesCommitted prometheus.Counter
	batchesAbandoned prometheus.Counter
	cycleFallbacks   prometheus.Counter
	nodeDuration     prometheus.Histogram
}

// NewMetrics creates and registers the engine instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		batchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "batches_started_total",
			Help:      "Evaluation batches that began executing.",
		}),
		batchesCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "batches_committed_total",
			Help:      "Evaluation batches whose results reached the store.",
		}),
		batchesAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "batches_abandoned_total",
			Help:      "Evaluation batches discarded because a newer request superseded them.",
		}),
		cycleFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "cycle_fallbacks_total",
			Help:      "Plans that fell back to discovery order because of a cycle.",
		}),
		nodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "canvas",
			Name:      "node_execution_seconds",
			Help:      "Wall time of individual node executions.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.batchesStarted, m.batchesCommitted, m.batchesAbandoned, m.cycleFallbacks, m.nodeDuration)
	return m
}

// BatchStarted records the beginning of a batch.
func (m *Metrics) BatchStarted() {
	if m != nil {
		m.batchesStarted.Inc()
	}
}

// BatchCommitted records a batch whose results reached the store.
func (m *Metrics) BatchCommitted() {
	if m != nil {
		m.batchesCommitted.Inc()
	}
}

// BatchAbandoned records a batch discarded due to staleness.
func (m *Metrics) BatchAbandoned() {
	if m != nil {
		m.batchesAbandoned.Inc()
	}
}

// CycleFallback records a plan degraded to discovery order.
func (m *Metrics) CycleFallback() {
	if m != nil {
		m.cycleFallbacks.Inc()
	}
}

// ObserveNode records the duration of one node execution.
func (m *Metrics) ObserveNode(d time.Duration) {
	if m != nil {
		m.nodeDuration.Observe(d.Seconds())
	}
}
