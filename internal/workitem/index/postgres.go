package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/workitem/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

var (
	_ ports.Index    = (*PostgresIndex)(nil)
	_ ports.Searcher = (*PostgresIndex)(nil)
)

const upsertEntrySQL = `
	INSERT INTO work_item_index (kind, id, assignee, group_id, parent_case_id, open, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (kind, id) DO UPDATE SET
		assignee = EXCLUDED.assignee,
		group_id = EXCLUDED.group_id,
		parent_case_id = EXCLUDED.parent_case_id,
		open = EXCLUDED.open,
		updated_at = EXCLUDED.updated_at
	WHERE work_item_index.updated_at <= EXCLUDED.updated_at`

// PostgresIndex buffers upserts in memory and flushes them in one pgx batch
// inside a transaction on Commit.
type PostgresIndex struct {
	pool   *pgxpool.Pool
	logger *slog.Logger

	mu      sync.Mutex
	pending map[entryKey]models.IndexEntry
}

type PostgresOption func(*PostgresIndex)

func WithLogger(logger *slog.Logger) PostgresOption {
	return func(i *PostgresIndex) {
		i.logger = logger
	}
}

func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresIndex {
	i := &PostgresIndex{
		pool:    pool,
		logger:  slog.Default(),
		pending: make(map[entryKey]models.IndexEntry),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *PostgresIndex) Upsert(_ context.Context, itemID id.WorkItemID, entry models.IndexEntry) error {
	entry.ID = itemID
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending[keyOf(entry)] = entry
	return nil
}

// Commit flushes the buffer. On failure the flushed entries are put back
// unless a newer upsert for the same item arrived in the meantime.
func (i *PostgresIndex) Commit(ctx context.Context) error {
	i.mu.Lock()
	entries := make([]models.IndexEntry, 0, len(i.pending))
	for _, entry := range i.pending {
		entries = append(entries, entry)
	}
	clear(i.pending)
	i.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, i.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(upsertEntrySQL,
				string(e.Kind), e.ID.String(), e.Assignee.String(), e.Group.String(),
				e.ParentCaseID.String(), e.Open, e.UpdatedAt,
			)
		}
		results := tx.SendBatch(ctx, batch)
		for range entries {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return err
			}
		}
		return results.Close()
	})
	if err != nil {
		i.requeue(entries)
		return fmt.Errorf("flush %d index entries: %w", len(entries), err)
	}

	i.logger.DebugContext(ctx, "search index committed", "entries", len(entries))
	return nil
}

func (i *PostgresIndex) requeue(entries []models.IndexEntry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, e := range entries {
		if _, newer := i.pending[keyOf(e)]; !newer {
			i.pending[keyOf(e)] = e
		}
	}
}

func (i *PostgresIndex) Search(ctx context.Context, query models.IndexQuery) ([]models.IndexEntry, error) {
	var (
		where = []string{"open"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.Kind != "" {
		where = append(where, "kind = "+arg(string(query.Kind)))
	}
	if !query.Assignee.IsZero() {
		where = append(where, "assignee = "+arg(query.Assignee.String()))
	}
	if query.Unassigned {
		where = append(where, "assignee = ''")
	}
	if len(query.Groups) > 0 {
		groups := make([]string, 0, len(query.Groups))
		for _, g := range query.Groups {
			groups = append(groups, g.String())
		}
		where = append(where, "group_id = ANY("+arg(groups)+")")
	}

	sql := `SELECT kind, id, assignee, group_id, parent_case_id, open, updated_at
		FROM work_item_index
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_at DESC, id ASC
		LIMIT ` + arg(effectiveLimit(query.Limit))

	rows, err := i.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search work item index: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.IndexEntry, error) {
		var (
			e                                     models.IndexEntry
			kind, itemID, assignee, group, parent string
		)
		if err := row.Scan(&kind, &itemID, &assignee, &group, &parent, &e.Open, &e.UpdatedAt); err != nil {
			return e, err
		}
		e.Kind = id.Kind(kind)
		e.ID = id.WorkItemID(itemID)
		e.Assignee = id.UserID(assignee)
		e.Group = id.GroupID(group)
		e.ParentCaseID = id.WorkItemID(parent)
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan work item index: %w", err)
	}
	return entries, nil
}
