// Package gateway holds an in-memory work item gateway. Production
// deployments talk to the case registry and process engine instead; this
// implementation backs local development and service tests.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

var _ ports.Gateway = (*InMemoryGateway)(nil)

type itemKey struct {
	kind id.Kind
	id   id.WorkItemID
}

// InMemoryGateway keeps work items in a map guarded by a mutex.
type InMemoryGateway struct {
	mu    sync.RWMutex
	items map[itemKey]models.WorkItem
}

// NewInMemory creates a gateway seeded with items.
func NewInMemory(items ...models.WorkItem) *InMemoryGateway {
	g := &InMemoryGateway{items: make(map[itemKey]models.WorkItem, len(items))}
	for _, item := range items {
		g.items[itemKey{item.Kind, item.ID}] = item
	}
	return g
}

// Put inserts or replaces an item.
func (g *InMemoryGateway) Put(item models.WorkItem) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items[itemKey{item.Kind, item.ID}] = item
}

// Complete marks an item as closed.
func (g *InMemoryGateway) Complete(kind id.Kind, itemID id.WorkItemID) error {
	return g.mutate(kind, itemID, func(item *models.WorkItem) {
		item.Open = false
	})
}

func (g *InMemoryGateway) Read(_ context.Context, kind id.Kind, itemID id.WorkItemID) (models.Lookup, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	item, ok := g.items[itemKey{kind, itemID}]
	if !ok {
		return models.NotFound(), nil
	}
	return models.Found(item), nil
}

func (g *InMemoryGateway) ReadOpen(ctx context.Context, kind id.Kind, itemID id.WorkItemID) (models.Lookup, error) {
	lookup, err := g.Read(ctx, kind, itemID)
	if err != nil || !lookup.OK() {
		return lookup, err
	}
	if !lookup.Item.Open {
		return models.Closed(lookup.Item), nil
	}
	return lookup, nil
}

func (g *InMemoryGateway) AssignToGroup(_ context.Context, kind id.Kind, itemID id.WorkItemID, group id.GroupID, _ string) error {
	return g.mutateOpen(kind, itemID, func(item *models.WorkItem) {
		item.Group = group
	})
}

func (g *InMemoryGateway) AssignToUser(_ context.Context, kind id.Kind, itemID id.WorkItemID, user id.UserID, _ string) error {
	return g.mutateOpen(kind, itemID, func(item *models.WorkItem) {
		item.Assignee = user
	})
}

func (g *InMemoryGateway) Release(_ context.Context, kind id.Kind, itemID id.WorkItemID, _ string) error {
	return g.mutateOpen(kind, itemID, func(item *models.WorkItem) {
		item.Assignee = ""
	})
}

func (g *InMemoryGateway) mutateOpen(kind id.Kind, itemID id.WorkItemID, fn func(*models.WorkItem)) error {
	return g.mutate(kind, itemID, fn, requireOpen)
}

type precondition func(models.WorkItem) error

func requireOpen(item models.WorkItem) error {
	if !item.Open {
		return fmt.Errorf("%s %s: %w", item.Kind, item.ID, sentinel.ErrClosed)
	}
	return nil
}

func (g *InMemoryGateway) mutate(kind id.Kind, itemID id.WorkItemID, fn func(*models.WorkItem), checks ...precondition) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := itemKey{kind, itemID}
	item, ok := g.items[key]
	if !ok {
		return fmt.Errorf("%s %s: %w", kind, itemID, sentinel.ErrNotFound)
	}
	for _, check := range checks {
		if err := check(item); err != nil {
			return err
		}
	}
	fn(&item)
	g.items[key] = item
	return nil
}
