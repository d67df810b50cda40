package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// Registry is the external document registry. Updates must carry the token of
// the lock the registry issued for the document. The registry does not
// announce new versions, so callers that need to notify must poll Read.
type Registry interface {
	// Read returns sentinel.ErrNotFound for an unknown document.
	Read(ctx context.Context, documentID id.DocumentID) (models.Document, error)

	// Update returns sentinel.ErrConflict when token does not match the
	// registry's current lock.
	Update(ctx context.Context, documentID id.DocumentID, token string, patch models.Patch) error
}
