// Package ports defines the collaborators the work item services depend on.
// The work item gateway and the search index are owned by other systems; the
// notification interfaces are implemented by internal/notification.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	nmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// Gateway is the authoritative source of task and case records.
type Gateway interface {
	// Read returns the item whether open or closed. Absence is reported in
	// the Lookup, not as an error.
	Read(ctx context.Context, kind id.Kind, itemID id.WorkItemID) (models.Lookup, error)

	// ReadOpen returns the item only when it exists and is still open.
	ReadOpen(ctx context.Context, kind id.Kind, itemID id.WorkItemID) (models.Lookup, error)

	AssignToGroup(ctx context.Context, kind id.Kind, itemID id.WorkItemID, group id.GroupID, reason string) error
	AssignToUser(ctx context.Context, kind id.Kind, itemID id.WorkItemID, user id.UserID, reason string) error
	Release(ctx context.Context, kind id.Kind, itemID id.WorkItemID, reason string) error
}

// Index is the search index behind the worklists. Upserts may be buffered
// until Commit.
type Index interface {
	Upsert(ctx context.Context, itemID id.WorkItemID, entry models.IndexEntry) error
	Commit(ctx context.Context) error
}

// Searcher queries committed index entries.
type Searcher interface {
	Search(ctx context.Context, query models.IndexQuery) ([]models.IndexEntry, error)
}

// LiveUpdates broadcasts coarse UI refresh events. Fire-and-forget.
type LiveUpdates interface {
	Publish(ctx context.Context, event nmodels.Event)
}

// Signals creates and deletes personal signals. Both calls are idempotent.
type Signals interface {
	Create(ctx context.Context, signal nmodels.Signal) error
	Delete(ctx context.Context, key nmodels.SignalKey) error
}
