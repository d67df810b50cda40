// Package intake consumes change notifications published by the case and
// document registries and turns them into signals and live-updates.
package intake

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka/consumer"
)

// Notification is a registry change notification. MainObjectID is the case
// the changed resource belongs to.
type Notification struct {
	Channel      string            `json:"channel"`
	Resource     string            `json:"resource"`
	Action       string            `json:"action"`
	MainObjectID string            `json:"mainObjectId"`
	ResourceID   string            `json:"resourceId"`
	Properties   map[string]string `json:"properties,omitempty"`
}

// Route is the routing key of the notification, "resource/action".
func (n Notification) Route() string {
	return n.Resource + "/" + n.Action
}

// NotificationHandler handles one kind of notification.
type NotificationHandler interface {
	Handle(ctx context.Context, n Notification) error
}

// Router dispatches notifications to handlers by resource and action.
// Notifications are best effort: malformed, unrouted and failed messages
// are logged and committed so one bad message cannot stall the topic.
type Router struct {
	handlers map[string]NotificationHandler
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

var _ consumer.Handler = (*Router)(nil)

// NewRouter creates a notification router.
func NewRouter(logger *slog.Logger, m *metrics.Metrics) *Router {
	return &Router{
		handlers: make(map[string]NotificationHandler),
		logger:   logger,
		metrics:  m,
	}
}

// Register adds a handler for a resource and action.
func (r *Router) Register(resource, action string, handler NotificationHandler) {
	r.handlers[resource+"/"+action] = handler
}

// Handle routes the message to the handler registered for its notification.
func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	var n Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		r.metrics.IncrementIntake("unknown", "malformed")
		r.logger.WarnContext(ctx, "skipping malformed registry notification",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	handler, ok := r.handlers[n.Route()]
	if !ok {
		r.metrics.IncrementIntake(n.Resource, "ignored")
		r.logger.DebugContext(ctx, "no handler for registry notification",
			"route", n.Route(),
		)
		return nil // Commit to avoid redelivery
	}

	if err := handler.Handle(ctx, n); err != nil {
		r.metrics.IncrementIntake(n.Resource, "failed")
		r.logger.ErrorContext(ctx, "registry notification handling failed",
			"route", n.Route(),
			"main_object_id", n.MainObjectID,
			"resource_id", n.ResourceID,
			"error", err,
		)
		return nil
	}
	r.metrics.IncrementIntake(n.Resource, "handled")
	return nil
}
