package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

// BatchFunc runs one batch to completion.
type BatchFunc func(ctx context.Context, job models.BatchJob) (models.BatchResult, error)

// Outcome is delivered once on the channel returned by Runner.Submit.
type Outcome struct {
	CorrelationID string
	Result        models.BatchResult
	Err           error
}

// Runner executes batches on their own goroutines, detached from the
// submitting request. Batches are not cancellable once submitted. An optional
// limit bounds how many batches execute at the same time; submissions beyond
// the limit wait in their goroutine rather than in a shared queue.
type Runner struct {
	run    BatchFunc
	logger *slog.Logger
	slots  chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

type RunnerOption func(*Runner)

func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMaxConcurrent bounds concurrently executing batches. Zero means no bound.
func WithMaxConcurrent(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.slots = make(chan struct{}, n)
		}
	}
}

func NewRunner(run BatchFunc, opts ...RunnerOption) *Runner {
	r := &Runner{run: run, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit starts job in the background and returns a channel that receives
// exactly one Outcome and is then closed.
func (r *Runner) Submit(ctx context.Context, job models.BatchJob) (<-chan Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("batch runner is shut down: %w", sentinel.ErrUnavailable)
	}

	done := make(chan Outcome, 1)
	r.wg.Add(1)
	go r.execute(context.WithoutCancel(ctx), job, done)
	return done, nil
}

func (r *Runner) execute(ctx context.Context, job models.BatchJob, done chan<- Outcome) {
	defer r.wg.Done()
	defer close(done)

	if r.slots != nil {
		r.slots <- struct{}{}
		defer func() { <-r.slots }()
	}

	outcome := Outcome{CorrelationID: job.CorrelationID}
	func() {
		defer func() {
			if p := recover(); p != nil {
				outcome.Err = fmt.Errorf("batch panicked: %v", p)
			}
		}()
		outcome.Result, outcome.Err = r.run(ctx, job)
	}()

	if outcome.Err != nil {
		r.logger.ErrorContext(ctx, "batch failed",
			"correlation_id", job.CorrelationID,
			"kind", job.Kind,
			"operation", job.Operation(),
			"applied", outcome.Result.AppliedCount(),
			"error", outcome.Err,
		)
	} else {
		r.logger.InfoContext(ctx, "batch completed",
			"correlation_id", job.CorrelationID,
			"kind", job.Kind,
			"operation", job.Operation(),
			"applied", outcome.Result.AppliedCount(),
			"skipped", len(outcome.Result.Skipped),
		)
	}
	done <- outcome
}

// Close rejects new submissions and waits for running batches, or until ctx
// is done.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running batches: %w", ctx.Err())
	}
}
