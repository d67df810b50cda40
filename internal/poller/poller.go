// Package poller waits for a change made by an external system that does not
// announce it, and emits the notification on that system's behalf.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/poller/metrics"
)

const (
	outcomeSatisfied = "satisfied"
	outcomeExhausted = "exhausted"
	outcomeCancelled = "cancelled"
)

// Predicate reports whether the awaited change is visible yet.
type Predicate func(ctx context.Context) bool

// Publisher receives the notification once the change is observed.
type Publisher interface {
	Publish(ctx context.Context, event models.Event)
}

// Poller evaluates predicates a bounded number of times. It is best effort:
// exhaustion is logged and never reported as an error.
type Poller struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	lifetime  context.Context
	wait      func(ctx context.Context, d time.Duration) error
}

type Option func(*Poller)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithLifetime stops started polls when ctx is done, typically on server
// shutdown. Cancelling the caller's context still has no effect on them.
func WithLifetime(ctx context.Context) Option {
	return func(p *Poller) {
		p.lifetime = ctx
	}
}

// withWait replaces the delay between attempts (for tests).
func withWait(wait func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Poller) {
		p.wait = wait
	}
}

func New(publisher Publisher, opts ...Option) (*Poller, error) {
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	p := &Poller{
		publisher: publisher,
		logger:    slog.Default(),
		wait:      sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WaitFor evaluates predicate up to maxAttempts times with delay between
// attempts. The first time it holds, event is published once and WaitFor
// returns true. On exhaustion nothing is published and it returns false.
func (p *Poller) WaitFor(ctx context.Context, predicate Predicate, event models.Event, maxAttempts int, delay time.Duration) bool {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := p.wait(ctx, delay); err != nil {
				p.metrics.RecordPoll(outcomeCancelled, attempt-1)
				p.logger.WarnContext(ctx, "change wait cancelled",
					"subject", event.Key(),
					"attempts", attempt-1,
					"error", err,
				)
				return false
			}
		}
		if predicate(ctx) {
			p.publisher.Publish(ctx, event)
			p.metrics.RecordPoll(outcomeSatisfied, attempt)
			p.logger.DebugContext(ctx, "change observed", "subject", event.Key(), "attempts", attempt)
			return true
		}
	}

	p.metrics.RecordPoll(outcomeExhausted, max(maxAttempts, 0))
	p.logger.WarnContext(ctx, "change not observed, notification skipped",
		"subject", event.Key(),
		"max_attempts", maxAttempts,
		"delay", delay,
	)
	return false
}

// Start runs WaitFor on its own goroutine, detached from ctx cancellation but
// bound to the poller's lifetime when one is set. The returned channel
// receives the result and is then closed.
func (p *Poller) Start(ctx context.Context, predicate Predicate, event models.Event, maxAttempts int, delay time.Duration) <-chan bool {
	done := make(chan bool, 1)
	p.metrics.PollStarted()
	go func() {
		defer close(done)
		defer p.metrics.PollFinished()

		pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		if p.lifetime != nil {
			stop := context.AfterFunc(p.lifetime, cancel)
			defer stop()
		}
		done <- p.WaitFor(pollCtx, predicate, event, maxAttempts, delay)
	}()
	return done
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
