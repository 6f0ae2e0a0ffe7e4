// Package ledger holds the durable record of which topics have been
// published. It is the only mutable cross-run state; all writes are
// serialized through a single Ledger instance and flushed to the
// backend after every commit so a crash loses at most the in-flight
// item.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"zsxq_sync/internal/domain"
)

// Backend persists the full ledger state wholesale.
type Backend interface {
	Load(ctx context.Context) (*domain.LedgerState, error)
	Save(ctx context.Context, state *domain.LedgerState) error
}

// Bound on retained run summaries, oldest evicted first.
const maxRunHistory = 10

type Ledger struct {
	mu      sync.RWMutex
	state   *domain.LedgerState
	backend Backend
	logger  *slog.Logger
}

// Open loads the persisted state through the backend. A corrupted
// backing store surfaces as the backend's corruption error after the
// store has been backed up; the caller decides between a forced full
// resync (New) and aborting.
func Open(ctx context.Context, backend Backend, logger *slog.Logger) (*Ledger, error) {
	state, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if state.Records == nil {
		state.Records = make(map[string]domain.SyncRecord)
	}
	return &Ledger{state: state, backend: backend, logger: logger.With("component", "ledger")}, nil
}

// New returns an empty ledger over the backend, used for a forced full
// resync after corruption.
func New(backend Backend, logger *slog.Logger) *Ledger {
	return &Ledger{
		state:   domain.NewLedgerState(),
		backend: backend,
		logger:  logger.With("component", "ledger"),
	}
}

// IsSynced reports whether the topic already has a ledger record.
func (l *Ledger) IsSynced(topicID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.state.Records[topicID]
	return ok
}

// Commit records a published topic and flushes. Idempotent: a second
// commit for the same topic id is a no-op, first write wins.
func (l *Ledger) Commit(ctx context.Context, rec domain.SyncRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.state.Records[rec.TopicID]; ok {
		l.logger.Debug("topic already committed, ignoring", "topic_id", rec.TopicID)
		return nil
	}
	if rec.SyncedAt.IsZero() {
		rec.SyncedAt = time.Now()
	}
	l.state.Records[rec.TopicID] = rec

	return l.flushLocked(ctx)
}

// AdvanceWatermark raises the incremental-sync watermark. Monotonic:
// an earlier timestamp is ignored, protecting against out-of-order
// batch completion.
func (l *Ledger) AdvanceWatermark(ctx context.Context, t time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !t.After(l.state.Watermark) {
		return nil
	}
	l.state.Watermark = t
	return l.flushLocked(ctx)
}

// Watermark returns the newest already-synced boundary, zero when the
// ledger has never completed a run.
func (l *Ledger) Watermark() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Watermark
}

// RecordRun appends a run summary, evicting beyond the history bound,
// and flushes.
func (l *Ledger) RecordRun(ctx context.Context, sum domain.RunSummary) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if sum.Timestamp.IsZero() {
		sum.Timestamp = time.Now()
	}
	l.state.Runs = append(l.state.Runs, sum)
	if len(l.state.Runs) > maxRunHistory {
		l.state.Runs = l.state.Runs[len(l.state.Runs)-maxRunHistory:]
	}
	return l.flushLocked(ctx)
}

// RecentRuns returns up to limit of the most recent run summaries,
// newest last.
func (l *Ledger) RecentRuns(limit int) []domain.RunSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	runs := l.state.Runs
	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	out := make([]domain.RunSummary, len(runs))
	copy(out, runs)
	return out
}

// TotalSynced returns the number of committed records.
func (l *Ledger) TotalSynced() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.state.Records)
}

func (l *Ledger) flushLocked(ctx context.Context) error {
	if err := l.backend.Save(ctx, l.state); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return nil
}
