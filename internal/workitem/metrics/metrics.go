package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for bulk distribution.
type Metrics struct {
	// Batches by operation (distribute, release) and outcome (ok, failed)
	Batches *prometheus.CounterVec

	// Items by result (applied, skipped, failed)
	Items *prometheus.CounterVec

	BatchDuration prometheus.Histogram

	BatchesInFlight prometheus.Gauge
}

// New creates a new Metrics instance with all work item metrics registered.
func New() *Metrics {
	return &Metrics{
		Batches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_workitem_batches_total",
			Help: "Total bulk distribution batches by operation and outcome",
		}, []string{"operation", "outcome"}),

		Items: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_workitem_batch_items_total",
			Help: "Total work items visited by batches, by result",
		}, []string{"result"}),

		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "zac_workitem_batch_duration_seconds",
			Help:    "Duration of a batch including finalization",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		BatchesInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "zac_workitem_batches_in_flight",
			Help: "Number of batches currently running in the background",
		}),
	}
}

// RecordBatch records a finished batch.
func (m *Metrics) RecordBatch(operation string, failed bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	m.Batches.WithLabelValues(operation, outcome).Inc()
	m.BatchDuration.Observe(d.Seconds())
}

// IncrementItem records the result for a single visited item.
func (m *Metrics) IncrementItem(result string) {
	if m != nil {
		m.Items.WithLabelValues(result).Inc()
	}
}

// BatchStarted increments the in-flight gauge.
func (m *Metrics) BatchStarted() {
	if m != nil {
		m.BatchesInFlight.Inc()
	}
}

// BatchFinished decrements the in-flight gauge.
func (m *Metrics) BatchFinished() {
	if m != nil {
		m.BatchesInFlight.Dec()
	}
}
