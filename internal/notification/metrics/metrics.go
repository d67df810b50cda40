package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for live-update and personal-signal delivery.
type Metrics struct {
	// Events published by channel (live-update, personal-signal)
	EventsPublished *prometheus.CounterVec

	// Events a sink could not deliver, by sink and reason
	EventsDropped *prometheus.CounterVec

	// Signal store writes by operation (create, delete, purge) and result
	SignalWrites *prometheus.CounterVec

	// Open websocket sessions
	Sessions prometheus.Gauge

	// Registry notifications consumed by resource and outcome
	IntakeMessages *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_notification_events_published_total",
			Help: "Total events published by channel",
		}, []string{"channel"}),

		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_notification_events_dropped_total",
			Help: "Total events dropped by a sink",
		}, []string{"sink", "reason"}),

		SignalWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_notification_signal_writes_total",
			Help: "Total signal store writes by operation and result",
		}, []string{"operation", "result"}),

		Sessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "zac_notification_websocket_sessions",
			Help: "Number of connected websocket sessions",
		}),

		IntakeMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_notification_intake_messages_total",
			Help: "Total registry notifications consumed by resource and outcome",
		}, []string{"resource", "outcome"}),
	}
}

func (m *Metrics) IncrementPublished(channel string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(channel).Inc()
	}
}

func (m *Metrics) IncrementDropped(sink, reason string) {
	if m != nil {
		m.EventsDropped.WithLabelValues(sink, reason).Inc()
	}
}

func (m *Metrics) IncrementSignalWrite(operation, result string) {
	if m != nil {
		m.SignalWrites.WithLabelValues(operation, result).Inc()
	}
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.Sessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.Sessions.Dec()
	}
}

func (m *Metrics) IncrementIntake(resource, outcome string) {
	if m != nil {
		m.IntakeMessages.WithLabelValues(resource, outcome).Inc()
	}
}

func (m *Metrics) AddPurged(result string, n int) {
	if m != nil {
		m.SignalWrites.WithLabelValues("purge", result).Add(float64(n))
	}
}
