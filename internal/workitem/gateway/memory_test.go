package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

func TestInMemoryGateway(t *testing.T) {
	ctx := context.Background()
	task := models.WorkItem{ID: "T1", Kind: id.KindTask, ParentCaseID: "Z1", Open: true}

	t.Run("read open reports missing items without error", func(t *testing.T) {
		g := NewInMemory()
		lookup, err := g.ReadOpen(ctx, id.KindTask, "T1")
		require.NoError(t, err)
		assert.Equal(t, models.LookupNotFound, lookup.Status)
	})

	t.Run("kinds do not share an id space", func(t *testing.T) {
		g := NewInMemory(task)
		lookup, err := g.Read(ctx, id.KindCase, "T1")
		require.NoError(t, err)
		assert.False(t, lookup.OK())
	})

	t.Run("closed items are found by read but not by read open", func(t *testing.T) {
		g := NewInMemory(task)
		require.NoError(t, g.Complete(id.KindTask, "T1"))

		lookup, err := g.Read(ctx, id.KindTask, "T1")
		require.NoError(t, err)
		assert.True(t, lookup.OK())

		lookup, err = g.ReadOpen(ctx, id.KindTask, "T1")
		require.NoError(t, err)
		assert.Equal(t, models.LookupClosed, lookup.Status)
		assert.Equal(t, id.WorkItemID("T1"), lookup.Item.ID)
	})

	t.Run("mutations are visible on the next read", func(t *testing.T) {
		g := NewInMemory(task)
		require.NoError(t, g.AssignToGroup(ctx, id.KindTask, "T1", "G", ""))
		require.NoError(t, g.AssignToUser(ctx, id.KindTask, "T1", "alice", ""))

		lookup, err := g.ReadOpen(ctx, id.KindTask, "T1")
		require.NoError(t, err)
		assert.Equal(t, id.GroupID("G"), lookup.Item.Group)
		assert.Equal(t, id.UserID("alice"), lookup.Item.Assignee)

		require.NoError(t, g.Release(ctx, id.KindTask, "T1", ""))
		lookup, err = g.ReadOpen(ctx, id.KindTask, "T1")
		require.NoError(t, err)
		assert.Empty(t, lookup.Item.Assignee)
		assert.Equal(t, id.GroupID("G"), lookup.Item.Group)
	})

	t.Run("mutating a missing item returns not found", func(t *testing.T) {
		g := NewInMemory()
		err := g.AssignToGroup(ctx, id.KindTask, "T1", "G", "")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("mutating a closed item returns closed", func(t *testing.T) {
		g := NewInMemory(task)
		require.NoError(t, g.Complete(id.KindTask, "T1"))
		err := g.Release(ctx, id.KindTask, "T1", "")
		assert.ErrorIs(t, err, sentinel.ErrClosed)
	})
}
