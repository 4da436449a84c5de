package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for risk evaluations.
type Metrics struct {
	// Evaluation outcomes by decision and tier
	Outcomes *prometheus.CounterVec

	// Rejected profiles by offending field
	ValidationFailures *prometheus.CounterVec

	// Arithmetic failures by stage
	ComputationFailures *prometheus.CounterVec

	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all risk metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finai_risk_outcomes_total",
			Help: "Total risk evaluations by decision and risk tier",
		}, []string{"decision", "tier"}),

		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finai_risk_validation_failures_total",
			Help: "Applicant profiles rejected before scoring, by field",
		}, []string{"field"}),

		ComputationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finai_risk_computation_failures_total",
			Help: "Evaluations that produced a non-finite or inconsistent result, by stage",
		}, []string{"stage"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finai_risk_evaluate_duration_seconds",
			Help:    "Duration of a single risk evaluation",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
	}
}

// IncrementOutcome records one successful evaluation.
func (m *Metrics) IncrementOutcome(decision, tier string) {
	if m != nil {
		m.Outcomes.WithLabelValues(decision, tier).Inc()
	}
}

func (m *Metrics) IncrementValidationFailure(field string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) IncrementComputationFailure(stage string) {
	if m != nil {
		m.ComputationFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveEvaluateLatency records the duration of one evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
