package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Denied      *prometheus.CounterVec
	StoreErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Denied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finai_ratelimit_denied_total",
			Help: "Total number of requests rejected by the rate limiter, by endpoint class",
		}, []string{"class"}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finai_ratelimit_store_errors_total",
			Help: "Total number of limiter store failures (requests are let through)",
		}),
	}
}

func (m *Metrics) IncrementDenied(class string) {
	if m != nil {
		m.Denied.WithLabelValues(class).Inc()
	}
}

func (m *Metrics) IncrementStoreErrors() {
	if m != nil {
		m.StoreErrors.Inc()
	}
}
