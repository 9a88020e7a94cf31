// Package prometheus records cascade attempt metrics with the Prometheus
// client library.
package prometheus

import (
	"github.com/fwojciec/cascade"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label of a successful attempt. Failed
// attempts are labelled with their error class.
const OutcomeSuccess = "success"

// Metrics holds the attempt collectors.
type Metrics struct {
	// Attempts counts finished attempts per backend and outcome.
	Attempts *prometheus.CounterVec

	// Duration observes attempt latency per backend.
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_attempts_total",
				Help: "Total number of finished cascade attempts",
			},
			[]string{"backend", "outcome"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cascade_attempt_duration_seconds",
				Help:    "Cascade attempt latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
	}
}

// Handle is an event handler for [cascade.WithEventHandler]. Start events
// are ignored.
func (m *Metrics) Handle(e cascade.Event) {
	switch ev := e.(type) {
	case cascade.EventAttemptSuccess:
		m.Attempts.WithLabelValues(ev.Backend.ID, OutcomeSuccess).Inc()
		m.Duration.WithLabelValues(ev.Backend.ID).Observe(ev.Duration.Seconds())
	case cascade.EventAttemptFailure:
		m.Attempts.WithLabelValues(ev.Record.BackendID, ev.Record.Class.String()).Inc()
		m.Duration.WithLabelValues(ev.Record.BackendID).Observe(ev.Record.Duration.Seconds())
	}
}
