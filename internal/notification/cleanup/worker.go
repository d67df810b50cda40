// Package cleanup purges personal signals nobody dismissed.
package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
)

const (
	defaultRetention = 30 * 24 * time.Hour
	defaultInterval  = time.Hour
)

// Purger deletes signals created before cutoff and reports how many.
type Purger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Worker periodically deletes signals older than the retention period. A
// failed purge is logged and retried on the next tick.
type Worker struct {
	store     Purger
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Worker)

func WithRetention(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.retention = d
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func withClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

func NewWorker(store Purger, opts ...Option) (*Worker, error) {
	if store == nil {
		return nil, errors.New("signal store is required")
	}
	w := &Worker{
		store:     store,
		retention: defaultRetention,
		interval:  defaultInterval,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run purges once immediately and then on every interval until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "signal cleanup started",
		"retention", w.retention.String(),
		"interval", w.interval.String(),
	)

	for {
		w.PurgeOnce(ctx)
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "signal cleanup stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// PurgeOnce runs a single purge and returns the number of deleted signals.
func (w *Worker) PurgeOnce(ctx context.Context) int {
	cutoff := w.now().Add(-w.retention)
	n, err := w.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.metrics.AddPurged("error", 1)
		w.logger.ErrorContext(ctx, "failed to purge expired signals",
			"cutoff", cutoff,
			"error", err,
		)
		return 0
	}
	if n > 0 {
		w.metrics.AddPurged("ok", n)
		w.logger.InfoContext(ctx, "purged expired signals", "count", n)
	}
	return n
}
