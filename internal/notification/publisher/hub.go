package publisher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
)

var _ ports.Sink = (*Hub)(nil)

const defaultSubscriptionBuffer = 64

// Hub fans events out to in-process subscribers, one per connected UI
// session. A subscriber that is not keeping up loses events rather than
// slowing down the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type HubOption func(*Hub)

func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func WithHubMetrics(m *metrics.Metrics) HubOption {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithSubscriptionBuffer sets the per-subscriber channel capacity.
func WithSubscriptionBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: defaultSubscriptionBuffer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscription receives the events its filter accepts until Close.
type Subscription struct {
	hub    *Hub
	ch     chan models.Event
	accept func(models.Event) bool
	once   sync.Once
}

// Events is closed when the subscription is closed.
func (s *Subscription) Events() <-chan models.Event { return s.ch }

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}

// Subscribe registers a subscriber. A nil filter accepts every event.
func (h *Hub) Subscribe(accept func(models.Event) bool) *Subscription {
	if accept == nil {
		accept = func(models.Event) bool { return true }
	}
	sub := &Subscription{
		hub:    h,
		ch:     make(chan models.Event, h.buffer),
		accept: accept,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish never blocks.
func (h *Hub) Publish(ctx context.Context, event models.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.accept(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.metrics.IncrementDropped("hub", "subscriber_full")
			h.logger.DebugContext(ctx, "dropping event for slow subscriber",
				"topic", event.Topic.String(),
				"subject_id", event.SubjectID,
			)
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
