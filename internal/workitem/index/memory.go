// Package index keeps the denormalized assignment projection that worklists
// are searched on. Writes are buffered per process and become searchable on
// Commit, mirroring the soft-commit behaviour of the production search index.
package index

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

var (
	_ ports.Index    = (*InMemoryIndex)(nil)
	_ ports.Searcher = (*InMemoryIndex)(nil)
)

type entryKey struct {
	kind id.Kind
	id   id.WorkItemID
}

func keyOf(entry models.IndexEntry) entryKey {
	return entryKey{kind: entry.Kind, id: entry.ID}
}

// InMemoryIndex implements Index and Searcher with two maps: pending writes
// and committed entries.
type InMemoryIndex struct {
	mu        sync.RWMutex
	pending   map[entryKey]models.IndexEntry
	committed map[entryKey]models.IndexEntry
}

func NewInMemory() *InMemoryIndex {
	return &InMemoryIndex{
		pending:   make(map[entryKey]models.IndexEntry),
		committed: make(map[entryKey]models.IndexEntry),
	}
}

// Upsert buffers the entry. A later upsert for the same item replaces it.
func (i *InMemoryIndex) Upsert(_ context.Context, itemID id.WorkItemID, entry models.IndexEntry) error {
	entry.ID = itemID
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending[keyOf(entry)] = entry
	return nil
}

// Commit makes all buffered entries searchable.
func (i *InMemoryIndex) Commit(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for k, entry := range i.pending {
		i.committed[k] = entry
	}
	clear(i.pending)
	return nil
}

// Get returns the committed entry for an item.
func (i *InMemoryIndex) Get(kind id.Kind, itemID id.WorkItemID) (models.IndexEntry, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	entry, ok := i.committed[entryKey{kind: kind, id: itemID}]
	return entry, ok
}

// Pending returns the number of buffered, uncommitted entries.
func (i *InMemoryIndex) Pending() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.pending)
}

// Search returns open committed entries matching query, most recently
// updated first.
func (i *InMemoryIndex) Search(_ context.Context, query models.IndexQuery) ([]models.IndexEntry, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var out []models.IndexEntry
	for _, entry := range i.committed {
		if matches(entry, query) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].UpdatedAt.Equal(out[b].UpdatedAt) {
			return out[a].UpdatedAt.After(out[b].UpdatedAt)
		}
		return out[a].ID < out[b].ID
	})

	limit := effectiveLimit(query.Limit)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(entry models.IndexEntry, query models.IndexQuery) bool {
	if !entry.Open {
		return false
	}
	if query.Kind != "" && entry.Kind != query.Kind {
		return false
	}
	if !query.Assignee.IsZero() && entry.Assignee != query.Assignee {
		return false
	}
	if query.Unassigned && entry.Assignee != "" {
		return false
	}
	if len(query.Groups) > 0 && !slices.Contains(query.Groups, entry.Group) {
		return false
	}
	return true
}

func effectiveLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}
