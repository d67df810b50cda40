// Package emitter is the single entry point for outgoing notifications. Live
// updates fan out to every configured sink; personal signals are stored first
// and only announced when the store actually changed.
package emitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

type Emitter struct {
	store   ports.SignalStore
	sinks   []ports.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Emitter)

// WithSink adds a destination for published events. Sinks are called in the
// order they were added.
func WithSink(sink ports.Sink) Option {
	return func(e *Emitter) {
		if sink != nil {
			e.sinks = append(e.sinks, sink)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

func New(store ports.SignalStore, opts ...Option) (*Emitter, error) {
	if store == nil {
		return nil, errors.New("signal store is required")
	}
	e := &Emitter{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Publish stamps the event and hands it to every sink. Fire-and-forget.
func (e *Emitter) Publish(ctx context.Context, event models.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}
	for _, sink := range e.sinks {
		sink.Publish(ctx, event)
	}
	e.metrics.IncrementPublished(string(event.Channel))
}

// Create stores the signal. An existing signal with the same key is left
// alone and no event is sent for it.
func (e *Emitter) Create(ctx context.Context, signal models.Signal) error {
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = e.now()
	}
	created, err := e.store.Create(ctx, signal)
	if err != nil {
		e.metrics.IncrementSignalWrite("create", "error")
		return fmt.Errorf("create %s signal: %w", signal.Type, err)
	}
	if !created {
		e.metrics.IncrementSignalWrite("create", "exists")
		return nil
	}
	e.metrics.IncrementSignalWrite("create", "ok")
	e.Publish(ctx, models.SignalCreated(signal.SignalKey))
	return nil
}

// Delete removes the signal. Deleting a missing signal is a no-op.
func (e *Emitter) Delete(ctx context.Context, key models.SignalKey) error {
	deleted, err := e.store.Delete(ctx, key)
	if err != nil {
		e.metrics.IncrementSignalWrite("delete", "error")
		return fmt.Errorf("delete %s signal: %w", key.Type, err)
	}
	if !deleted {
		e.metrics.IncrementSignalWrite("delete", "missing")
		return nil
	}
	e.metrics.IncrementSignalWrite("delete", "ok")
	e.Publish(ctx, models.SignalDeleted(key))
	return nil
}

// DeleteBySubject removes the signals of the given types about subject for
// every recipient.
func (e *Emitter) DeleteBySubject(ctx context.Context, subjectID string, types ...models.SignalType) error {
	keys, err := e.store.DeleteBySubject(ctx, subjectID, types)
	if err != nil {
		e.metrics.IncrementSignalWrite("delete", "error")
		return fmt.Errorf("delete signals for %s: %w", subjectID, err)
	}
	for _, key := range keys {
		e.metrics.IncrementSignalWrite("delete", "ok")
		e.Publish(ctx, models.SignalDeleted(key))
	}
	return nil
}

// List returns the recipient's current signals.
func (e *Emitter) List(ctx context.Context, recipient id.UserID) ([]models.Signal, error) {
	signals, err := e.store.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	return signals, nil
}
