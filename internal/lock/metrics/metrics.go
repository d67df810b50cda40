package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for document edit locks.
type Metrics struct {
	// Lock acquisitions by mode (temporary, explicit) and outcome
	Acquisitions *prometheus.CounterVec

	// Lock releases by mode and outcome
	Releases *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Acquisitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_document_lock_acquisitions_total",
			Help: "Total document lock acquisition attempts by mode and outcome",
		}, []string{"mode", "outcome"}),
		Releases: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zac_document_lock_releases_total",
			Help: "Total document lock releases by mode and outcome",
		}, []string{"mode", "outcome"}),
	}
}

func (m *Metrics) IncrementAcquisition(mode, outcome string) {
	if m != nil {
		m.Acquisitions.WithLabelValues(mode, outcome).Inc()
	}
}

func (m *Metrics) IncrementRelease(mode, outcome string) {
	if m != nil {
		m.Releases.WithLabelValues(mode, outcome).Inc()
	}
}
