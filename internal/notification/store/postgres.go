package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

var _ ports.SignalStore = (*PostgresSignalStore)(nil)

// PostgresSignalStore persists signals in the signal table. The unique key
// on (recipient, type, subject_id) makes Create idempotent.
type PostgresSignalStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresSignalStore {
	return &PostgresSignalStore{db: db}
}

func (s *PostgresSignalStore) Create(ctx context.Context, signal models.Signal) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO signal (recipient, type, subject_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (recipient, type, subject_id) DO NOTHING`,
		signal.Recipient.String(), string(signal.Type), signal.SubjectID, signal.Detail, signal.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert signal: %w", err)
	}
	return affected(res)
}

func (s *PostgresSignalStore) Delete(ctx context.Context, key models.SignalKey) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM signal WHERE recipient = $1 AND type = $2 AND subject_id = $3`,
		key.Recipient.String(), string(key.Type), key.SubjectID,
	)
	if err != nil {
		return false, fmt.Errorf("delete signal: %w", err)
	}
	return affected(res)
}

func (s *PostgresSignalStore) DeleteBySubject(ctx context.Context, subjectID string, types []models.SignalType) ([]models.SignalKey, error) {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	rows, err := s.db.QueryContext(ctx, `
		DELETE FROM signal
		WHERE subject_id = $1 AND type = ANY($2)
		RETURNING recipient, type`,
		subjectID, pq.Array(names),
	)
	if err != nil {
		return nil, fmt.Errorf("delete signals for subject: %w", err)
	}
	defer rows.Close()

	var removed []models.SignalKey
	for rows.Next() {
		var rcpt, kind string
		if err := rows.Scan(&rcpt, &kind); err != nil {
			return nil, fmt.Errorf("scan deleted signal: %w", err)
		}
		removed = append(removed, models.SignalKey{
			Recipient: id.UserID(rcpt),
			Type:      models.SignalType(kind),
			SubjectID: subjectID,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted signals: %w", err)
	}
	return removed, nil
}

func (s *PostgresSignalStore) ListByRecipient(ctx context.Context, recipient id.UserID) ([]models.Signal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipient, type, subject_id, detail, created_at
		FROM signal
		WHERE recipient = $1
		ORDER BY created_at DESC, subject_id ASC`,
		recipient.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	var out []models.Signal
	for rows.Next() {
		var (
			signal     models.Signal
			rcpt, kind string
		)
		if err := rows.Scan(&rcpt, &kind, &signal.SubjectID, &signal.Detail, &signal.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		signal.Recipient = id.UserID(rcpt)
		signal.Type = models.SignalType(kind)
		out = append(out, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signals: %w", err)
	}
	return out, nil
}

func (s *PostgresSignalStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM signal WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge signals: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge signals: %w", err)
	}
	return int(n), nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
