package contract

import (
	"time"

	"github.com/informiz/chaincode/internal/apperr"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts contract invocations by outcome.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "informiz",
			Name:      "invocations_total",
			Help:      "Contract invocations by contract, function and outcome.",
		}, []string{"contract", "function", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "informiz",
			Name:      "invocation_duration_seconds",
			Help:      "Contract invocation latency, including the ledger transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"contract", "function"}),
	}
	if reg != nil {
		reg.MustRegister(m.invocations, m.duration)
	}
	return m
}

func (m *Metrics) observe(contract, function string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	m.invocations.WithLabelValues(contract, function, outcome).Inc()
	m.duration.WithLabelValues(contract, function).Observe(time.Since(started).Seconds())
}
