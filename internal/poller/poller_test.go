package poller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingPublisher) Publish(_ context.Context, event models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) published() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Event(nil), r.events...)
}

func newTestPoller(t *testing.T, pub Publisher, waits *[]time.Duration) *Poller {
	t.Helper()
	p, err := New(pub,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		withWait(func(_ context.Context, d time.Duration) error {
			if waits != nil {
				*waits = append(*waits, d)
			}
			return nil
		}),
	)
	require.NoError(t, err)
	return p
}

// trueFrom returns a predicate that holds from the given attempt onwards.
func trueFrom(attempt int32, calls *atomic.Int32) Predicate {
	return func(context.Context) bool {
		return calls.Add(1) >= attempt
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.ErrorContains(t, err, "publisher is required")
}

func TestWaitFor(t *testing.T) {
	event := models.ItemUpdated(id.KindDocument, "doc-1")

	t.Run("stops at the first success and publishes once", func(t *testing.T) {
		pub := &recordingPublisher{}
		var waits []time.Duration
		p := newTestPoller(t, pub, &waits)
		var calls atomic.Int32

		ok := p.WaitFor(context.Background(), trueFrom(2, &calls), event, 5, 250*time.Millisecond)

		assert.True(t, ok)
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, []models.Event{event}, pub.published())
		assert.Equal(t, []time.Duration{250 * time.Millisecond}, waits, "delay only between attempts")
	})

	t.Run("first attempt success does not wait", func(t *testing.T) {
		pub := &recordingPublisher{}
		var waits []time.Duration
		p := newTestPoller(t, pub, &waits)
		var calls atomic.Int32

		assert.True(t, p.WaitFor(context.Background(), trueFrom(1, &calls), event, 3, time.Second))
		assert.Equal(t, int32(1), calls.Load())
		assert.Empty(t, waits)
		assert.Len(t, pub.published(), 1)
	})

	t.Run("exhaustion returns false and publishes nothing", func(t *testing.T) {
		pub := &recordingPublisher{}
		var waits []time.Duration
		p := newTestPoller(t, pub, &waits)
		var calls atomic.Int32

		ok := p.WaitFor(context.Background(), trueFrom(10, &calls), event, 4, time.Millisecond)

		assert.False(t, ok)
		assert.Equal(t, int32(4), calls.Load())
		assert.Len(t, waits, 3)
		assert.Empty(t, pub.published())
	})

	t.Run("zero attempts never evaluates", func(t *testing.T) {
		pub := &recordingPublisher{}
		p := newTestPoller(t, pub, nil)
		var calls atomic.Int32

		assert.False(t, p.WaitFor(context.Background(), trueFrom(1, &calls), event, 0, time.Millisecond))
		assert.Zero(t, calls.Load())
		assert.Empty(t, pub.published())
	})

	t.Run("cancelled context stops between attempts", func(t *testing.T) {
		pub := &recordingPublisher{}
		p, err := New(pub, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls atomic.Int32

		assert.False(t, p.WaitFor(ctx, trueFrom(2, &calls), event, 5, time.Hour))
		assert.Equal(t, int32(1), calls.Load())
		assert.Empty(t, pub.published())
	})
}

func TestStart(t *testing.T) {
	event := models.ItemUpdated(id.KindDocument, "doc-1")

	t.Run("runs in the background detached from the caller", func(t *testing.T) {
		pub := &recordingPublisher{}
		p, err := New(pub, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		require.NoError(t, err)
		var calls atomic.Int32

		ctx, cancel := context.WithCancel(context.Background())
		done := p.Start(ctx, trueFrom(3, &calls), event, 5, time.Millisecond)
		cancel()

		select {
		case ok := <-done:
			assert.True(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("poll did not finish")
		}
		_, open := <-done
		assert.False(t, open)
		assert.Equal(t, int32(3), calls.Load())
		assert.Len(t, pub.published(), 1)
	})

	t.Run("stops when the poller lifetime ends", func(t *testing.T) {
		pub := &recordingPublisher{}
		lifetime, shutdown := context.WithCancel(context.Background())
		p, err := New(pub,
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			WithLifetime(lifetime),
		)
		require.NoError(t, err)
		var calls atomic.Int32

		done := p.Start(context.Background(), trueFrom(1000, &calls), event, 1000, 10*time.Millisecond)
		require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
		shutdown()

		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("poll kept running after shutdown")
		}
		assert.Less(t, calls.Load(), int32(1000))
		assert.Empty(t, pub.published())
	})
}
