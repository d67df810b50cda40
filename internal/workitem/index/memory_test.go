package index

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

func entry(itemID string, kind id.Kind, group id.GroupID, assignee id.UserID, at time.Time) models.IndexEntry {
	return models.IndexEntry{ID: id.WorkItemID(itemID), Kind: kind, Group: group, Assignee: assignee, Open: true, UpdatedAt: at}
}

func TestInMemoryIndexCommit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	t.Run("upserts are not searchable before commit", func(t *testing.T) {
		idx := NewInMemory()
		require.NoError(t, idx.Upsert(ctx, "T1", entry("T1", id.KindTask, "G", "", now)))

		found, err := idx.Search(ctx, models.IndexQuery{Kind: id.KindTask})
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.Equal(t, 1, idx.Pending())

		require.NoError(t, idx.Commit(ctx))
		found, err = idx.Search(ctx, models.IndexQuery{Kind: id.KindTask})
		require.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Zero(t, idx.Pending())
	})

	t.Run("later upsert for the same item wins", func(t *testing.T) {
		idx := NewInMemory()
		require.NoError(t, idx.Upsert(ctx, "T1", entry("T1", id.KindTask, "G", "alice", now)))
		require.NoError(t, idx.Upsert(ctx, "T1", entry("T1", id.KindTask, "H", "", now.Add(time.Second))))
		require.NoError(t, idx.Commit(ctx))

		got, ok := idx.Get(id.KindTask, "T1")
		require.True(t, ok)
		assert.Equal(t, id.GroupID("H"), got.Group)
		assert.Empty(t, got.Assignee)
	})
}

func TestInMemoryIndexSearch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	idx := NewInMemory()
	closed := entry("T4", id.KindTask, "G", "", now)
	closed.Open = false
	for _, e := range []models.IndexEntry{
		entry("T1", id.KindTask, "G", "alice", now),
		entry("T2", id.KindTask, "G", "", now.Add(time.Minute)),
		entry("T3", id.KindTask, "H", "", now.Add(2*time.Minute)),
		closed,
		entry("Z1", id.KindCase, "G", "alice", now),
	} {
		require.NoError(t, idx.Upsert(ctx, e.ID, e))
	}
	require.NoError(t, idx.Commit(ctx))

	tests := []struct {
		name  string
		query models.IndexQuery
		want  []id.WorkItemID
	}{
		{"kind only, newest first", models.IndexQuery{Kind: id.KindTask}, []id.WorkItemID{"T3", "T2", "T1"}},
		{"assignee", models.IndexQuery{Kind: id.KindTask, Assignee: "alice"}, []id.WorkItemID{"T1"}},
		{"unassigned in group", models.IndexQuery{Kind: id.KindTask, Groups: []id.GroupID{"G"}, Unassigned: true}, []id.WorkItemID{"T2"}},
		{"any of groups", models.IndexQuery{Kind: id.KindTask, Groups: []id.GroupID{"G", "H"}}, []id.WorkItemID{"T3", "T2", "T1"}},
		{"limit", models.IndexQuery{Kind: id.KindTask, Limit: 1}, []id.WorkItemID{"T3"}},
		{"cases", models.IndexQuery{Kind: id.KindCase}, []id.WorkItemID{"Z1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := idx.Search(ctx, tt.query)
			require.NoError(t, err)
			got := make([]id.WorkItemID, 0, len(found))
			for _, e := range found {
				got = append(got, e.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveLimit(t *testing.T) {
	for in, want := range map[int]int{0: defaultLimit, -3: defaultLimit, 20: 20, maxLimit + 1: maxLimit} {
		t.Run(fmt.Sprint(in), func(t *testing.T) {
			assert.Equal(t, want, effectiveLimit(in))
		})
	}
}
