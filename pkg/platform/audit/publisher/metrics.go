package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit publishing. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	Dropped         prometheus.Counter
	Sampled         prometheus.Counter
	PersistFailures prometheus.Counter
	SinkFailures    prometheus.Counter
	SinkSkipped     prometheus.Counter
	SinkBreaker     prometheus.Gauge
}

// NewMetrics creates and registers the audit publisher metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finai_audit_events_emitted_total",
			Help: "Total number of audit events persisted, by category",
		}, []string{"category"}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finai_audit_events_dropped_total",
			Help: "Total number of audit events dropped because the async buffer was full",
		}),
		Sampled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finai_audit_events_sampled_total",
			Help: "Total number of operations events dropped by sampling",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finai_audit_persist_failures_total",
			Help: "Total number of audit store write failures",
		}),
		SinkFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finai_audit_sink_failures_total",
			Help: "Total number of audit stream publish failures",
		}),
		SinkSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finai_audit_sink_skipped_total",
			Help: "Total number of audit events not streamed because the circuit breaker was open",
		}),
		SinkBreaker: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "finai_audit_sink_circuit_breaker_state",
			Help: "Current audit stream circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) incEmitted(category string) {
	if m != nil {
		m.Emitted.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) incSampled() {
	if m != nil {
		m.Sampled.Inc()
	}
}

func (m *Metrics) incPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) incSinkFailures() {
	if m != nil {
		m.SinkFailures.Inc()
	}
}

func (m *Metrics) incSinkSkipped() {
	if m != nil {
		m.SinkSkipped.Inc()
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.SinkBreaker.Set(1)
		return
	}
	m.SinkBreaker.Set(0)
}
