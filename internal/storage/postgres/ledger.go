// Package postgres provides a database-backed ledger store for
// deployments where a shared durable store beats a local state file.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"zsxq_sync/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_records (
	topic_id   TEXT PRIMARY KEY,
	post_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	created_at TIMESTAMPTZ,
	synced_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_meta (
	id        INT PRIMARY KEY DEFAULT 1,
	watermark TIMESTAMPTZ,
	CONSTRAINT sync_meta_singleton CHECK (id = 1)
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id          BIGSERIAL PRIMARY KEY,
	mode        TEXT NOT NULL,
	total       INT NOT NULL,
	succeeded   INT NOT NULL,
	skipped     INT NOT NULL,
	failed      INT NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);`

// LedgerStore implements ledger.Backend on Postgres. Load reads the
// state wholesale; Save upserts inside one transaction. Records are
// insert-only (first write wins), matching commit idempotency.
type LedgerStore struct {
	db        *sqlx.DB
	txManager *TransactionManager
}

func NewLedgerStore(db *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: db, txManager: NewTransactionManager(db)}
}

// EnsureSchema creates the ledger tables when missing.
func (s *LedgerStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}
	return nil
}

func (s *LedgerStore) Load(ctx context.Context) (*domain.LedgerState, error) {
	state := domain.NewLedgerState()

	var records []domain.SyncRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT topic_id, post_id, title, created_at, synced_at FROM sync_records`)
	if err != nil {
		return nil, fmt.Errorf("load sync records: %w", err)
	}
	for _, rec := range records {
		state.Records[rec.TopicID] = rec
	}

	var watermark []time.Time
	err = s.db.SelectContext(ctx, &watermark, `SELECT watermark FROM sync_meta WHERE id = 1`)
	if err != nil {
		return nil, fmt.Errorf("load watermark: %w", err)
	}
	if len(watermark) > 0 {
		state.Watermark = watermark[0]
	}

	err = s.db.SelectContext(ctx, &state.Runs, `
		SELECT mode, total, succeeded, skipped, failed, finished_at
		FROM (
			SELECT mode, total, succeeded, skipped, failed, finished_at, id
			FROM sync_runs ORDER BY id DESC LIMIT 10
		) recent
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load run history: %w", err)
	}

	return state, nil
}

func (s *LedgerStore) Save(ctx context.Context, state *domain.LedgerState) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := Executor(txCtx, s.db)

		for _, rec := range state.Records {
			_, err := exec.ExecContext(txCtx, `
				INSERT INTO sync_records (topic_id, post_id, title, created_at, synced_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (topic_id) DO NOTHING`,
				rec.TopicID, rec.PostID, rec.Title, rec.CreatedAt, rec.SyncedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert sync record %s: %w", rec.TopicID, err)
			}
		}

		if !state.Watermark.IsZero() {
			_, err := exec.ExecContext(txCtx, `
				INSERT INTO sync_meta (id, watermark) VALUES (1, $1)
				ON CONFLICT (id) DO UPDATE SET watermark = EXCLUDED.watermark`,
				state.Watermark,
			)
			if err != nil {
				return fmt.Errorf("upsert watermark: %w", err)
			}
		}

		if _, err := exec.ExecContext(txCtx, `DELETE FROM sync_runs`); err != nil {
			return fmt.Errorf("clear run history: %w", err)
		}
		for _, run := range state.Runs {
			_, err := exec.ExecContext(txCtx, `
				INSERT INTO sync_runs (mode, total, succeeded, skipped, failed, finished_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				run.Mode, run.Total, run.Succeeded, run.Skipped, run.Failed, run.Timestamp,
			)
			if err != nil {
				return fmt.Errorf("insert run summary: %w", err)
			}
		}

		return nil
	})
}
