package publisher

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/platform/kafka/consumer"
)

// Relay feeds events read back from the live-update topic into the local
// hub. Every instance runs its own consumer group so that each one sees all
// events.
type Relay struct {
	hub    *Hub
	logger *slog.Logger
}

func NewRelay(hub *Hub, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{hub: hub, logger: logger}
}

func (r *Relay) Handle(ctx context.Context, msg *consumer.Message) error {
	var event models.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		r.logger.WarnContext(ctx, "skipping malformed live update",
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	r.hub.Publish(ctx, event)
	return nil
}
