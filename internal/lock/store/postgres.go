package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

var _ ports.Store = (*PostgresStore)(nil)

// PostgresStore keeps locks in the document_lock table; the primary key on
// document_id provides the at-most-one guarantee.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, documentID id.DocumentID) (models.Lock, error) {
	var (
		lock   models.Lock
		holder string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT holder, token, temporary, created_at
		FROM document_lock
		WHERE document_id = $1`,
		documentID.String(),
	).Scan(&holder, &lock.Token, &lock.Temporary, &lock.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lock{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Lock{}, fmt.Errorf("find lock: %w", err)
	}
	lock.DocumentID = documentID
	lock.HolderID = id.UserID(holder)
	return lock, nil
}

func (s *PostgresStore) Create(ctx context.Context, lock models.Lock) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO document_lock (document_id, holder, token, temporary, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id) DO NOTHING`,
		lock.DocumentID.String(), lock.HolderID.String(), lock.Token, lock.Temporary, lock.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert lock: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, documentID id.DocumentID, token string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM document_lock WHERE document_id = $1 AND token = $2`,
		documentID.String(), token,
	)
	if err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
