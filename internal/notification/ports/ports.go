package ports

import (
	"context"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// SignalStore persists personal signals keyed by (recipient, type, subject).
type SignalStore interface {
	// Create stores the signal unless one with the same key exists.
	// created reports whether a row was written.
	Create(ctx context.Context, signal models.Signal) (created bool, err error)

	// Delete removes the signal. deleted is false when nothing matched.
	Delete(ctx context.Context, key models.SignalKey) (deleted bool, err error)

	// DeleteBySubject removes every signal of the given types about subject
	// and returns the keys that were removed.
	DeleteBySubject(ctx context.Context, subjectID string, types []models.SignalType) ([]models.SignalKey, error)

	// ListByRecipient returns the recipient's signals, newest first.
	ListByRecipient(ctx context.Context, recipient id.UserID) ([]models.Signal, error)

	// DeleteOlderThan purges signals created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// Sink receives every event the emitter publishes. Sinks must not block.
type Sink interface {
	Publish(ctx context.Context, event models.Event)
}
