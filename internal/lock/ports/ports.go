package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// Store persists locks, at most one per document.
type Store interface {
	// Find returns sentinel.ErrNotFound when the document is not locked.
	Find(ctx context.Context, documentID id.DocumentID) (models.Lock, error)

	// Create returns sentinel.ErrConflict when a lock already exists.
	Create(ctx context.Context, lock models.Lock) error

	// Delete removes the lock only if it still carries token.
	Delete(ctx context.Context, documentID id.DocumentID, token string) error
}

// Locker is the document registry's own lock API.
type Locker interface {
	Lock(ctx context.Context, documentID id.DocumentID, holder id.UserID) (token string, err error)
	Unlock(ctx context.Context, documentID id.DocumentID, token string) error

	// ForceUnlock drops the registry lock without its token. Used only for
	// locks whose store record has expired.
	ForceUnlock(ctx context.Context, documentID id.DocumentID) error
}
