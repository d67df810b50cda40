package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for change-wait polls.
type Metrics struct {
	// Finished polls by outcome (satisfied, exhausted, cancelled)
	Polls *prometheus.CounterVec

	// Predicate evaluations per finished poll
	Attempts prometheus.Histogram

	// Polls started asynchronously and not yet finished
	InFlight prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Polls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_poller_polls_total",
			Help: "Total change-wait polls by outcome",
		}, []string{"outcome"}),
		Attempts: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zac_poller_attempts",
			Help:    "Predicate evaluations needed per change-wait poll",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "zac_poller_in_flight",
			Help: "Number of background change-wait polls currently running",
		}),
	}
}

func (m *Metrics) RecordPoll(outcome string, attempts int) {
	if m != nil {
		m.Polls.WithLabelValues(outcome).Inc()
		m.Attempts.Observe(float64(attempts))
	}
}

func (m *Metrics) PollStarted() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) PollFinished() {
	if m != nil {
		m.InFlight.Dec()
	}
}
