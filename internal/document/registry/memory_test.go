package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

func TestInMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	title := "Besluit v2"

	t.Run("update requires the current lock token and bumps the version", func(t *testing.T) {
		r := NewInMemory(models.Document{ID: "D1", CaseID: "Z1", Title: "Besluit", Version: 1})

		err := r.Update(ctx, "D1", "", models.Patch{Title: &title})
		assert.ErrorIs(t, err, sentinel.ErrConflict)

		token, err := r.Lock(ctx, "D1", "alice")
		require.NoError(t, err)
		assert.True(t, r.Locked("D1"))

		require.NoError(t, r.Update(ctx, "D1", token, models.Patch{Title: &title}))
		doc, err := r.Read(ctx, "D1")
		require.NoError(t, err)
		assert.Equal(t, 2, doc.Version)
		assert.Equal(t, title, doc.Title)

		assert.ErrorIs(t, r.Update(ctx, "D1", "stale", models.Patch{Title: &title}), sentinel.ErrConflict)
	})

	t.Run("one registry lock per document", func(t *testing.T) {
		r := NewInMemory(models.Document{ID: "D1"})
		token, err := r.Lock(ctx, "D1", "alice")
		require.NoError(t, err)

		_, err = r.Lock(ctx, "D1", "bob")
		assert.ErrorIs(t, err, sentinel.ErrConflict)

		assert.ErrorIs(t, r.Unlock(ctx, "D1", "other"), sentinel.ErrConflict)
		require.NoError(t, r.Unlock(ctx, "D1", token))
		assert.False(t, r.Locked("D1"))
	})

	t.Run("force unlock drops a lock whose token was lost", func(t *testing.T) {
		r := NewInMemory(models.Document{ID: "D1"})
		_, err := r.Lock(ctx, "D1", "alice")
		require.NoError(t, err)

		require.NoError(t, r.ForceUnlock(ctx, "D1"))
		assert.False(t, r.Locked("D1"))
		_, err = r.Lock(ctx, "D1", "bob")
		assert.NoError(t, err)
	})

	t.Run("unknown document", func(t *testing.T) {
		r := NewInMemory()
		_, err := r.Read(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		_, err = r.Lock(ctx, "missing", "alice")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
