package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zsxq_sync/internal/domain"
)

type LedgerTestSuite struct {
	suite.Suite
	ctx    context.Context
	dir    string
	path   string
	logger *slog.Logger
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()
	s.path = filepath.Join(s.dir, "sync_record.json")
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) openLedger() *Ledger {
	led, err := Open(s.ctx, NewFileBackend(s.path), s.logger)
	s.Require().NoError(err)
	return led
}

func (s *LedgerTestSuite) TestOpen_MissingFileStartsEmpty() {
	led := s.openLedger()

	s.Equal(0, led.TotalSynced())
	s.True(led.Watermark().IsZero())
	s.False(led.IsSynced("1"))
}

func (s *LedgerTestSuite) TestCommit_PersistsAcrossReopen() {
	led := s.openLedger()

	err := led.Commit(s.ctx, domain.SyncRecord{
		TopicID:   "581411225242814",
		PostID:    "42",
		Title:     "First Post",
		CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	s.True(led.IsSynced("581411225242814"))

	reopened := s.openLedger()
	s.True(reopened.IsSynced("581411225242814"))
	s.Equal(1, reopened.TotalSynced())
}

func (s *LedgerTestSuite) TestCommit_FirstWriteWins() {
	led := s.openLedger()

	s.NoError(led.Commit(s.ctx, domain.SyncRecord{TopicID: "7", PostID: "first"}))
	s.NoError(led.Commit(s.ctx, domain.SyncRecord{TopicID: "7", PostID: "second"}))

	reopened := s.openLedger()
	s.Equal(1, reopened.TotalSynced())
	s.True(reopened.IsSynced("7"))
}

func (s *LedgerTestSuite) TestCommit_DefaultsSyncedAt() {
	led := s.openLedger()

	before := time.Now().Add(-time.Second)
	s.NoError(led.Commit(s.ctx, domain.SyncRecord{TopicID: "9", PostID: "1"}))

	reopened := s.openLedger()
	s.True(reopened.IsSynced("9"))

	// flushed record carries a non-zero timestamp
	state, err := NewFileBackend(s.path).Load(s.ctx)
	s.Require().NoError(err)
	s.True(state.Records["9"].SyncedAt.After(before))
}

func (s *LedgerTestSuite) TestAdvanceWatermark_Monotonic() {
	led := s.openLedger()

	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	s.NoError(led.AdvanceWatermark(s.ctx, t1))
	s.NoError(led.AdvanceWatermark(s.ctx, t0))

	s.True(led.Watermark().Equal(t1))

	reopened := s.openLedger()
	s.True(reopened.Watermark().Equal(t1))
}

func (s *LedgerTestSuite) TestRecordRun_EvictsBeyondHistoryBound() {
	led := s.openLedger()

	for i := 0; i < maxRunHistory+3; i++ {
		s.NoError(led.RecordRun(s.ctx, domain.RunSummary{
			Mode:      "full",
			Total:     i,
			Timestamp: time.Now(),
		}))
	}

	runs := led.RecentRuns(0)
	s.Len(runs, maxRunHistory)
	// oldest three evicted, newest kept
	s.Equal(3, runs[0].Total)
	s.Equal(maxRunHistory+2, runs[len(runs)-1].Total)

	s.Len(led.RecentRuns(2), 2)
}

func (s *LedgerTestSuite) TestOpen_CorruptFileBackedUp() {
	s.Require().NoError(os.WriteFile(s.path, []byte("{not json"), 0o644))

	_, err := Open(s.ctx, NewFileBackend(s.path), s.logger)
	s.Error(err)

	var corrupt *CorruptError
	s.ErrorAs(err, &corrupt)
	s.Equal(s.path, corrupt.Path)

	// original moved aside, not deleted
	_, statErr := os.Stat(s.path)
	s.True(os.IsNotExist(statErr))
	data, readErr := os.ReadFile(corrupt.BackupPath)
	s.NoError(readErr)
	s.Equal("{not json", string(data))

	// a fresh ledger over the same path starts clean
	led := New(NewFileBackend(s.path), s.logger)
	s.Equal(0, led.TotalSynced())
	s.NoError(led.Commit(s.ctx, domain.SyncRecord{TopicID: "1", PostID: "1"}))
}

func (s *LedgerTestSuite) TestFileBackend_RecordsKeyedByTopicID() {
	led := s.openLedger()
	s.NoError(led.Commit(s.ctx, domain.SyncRecord{TopicID: "123", PostID: "p1", Title: "T"}))

	state, err := NewFileBackend(s.path).Load(s.ctx)
	s.Require().NoError(err)

	rec, ok := state.Records["123"]
	s.True(ok)
	s.Equal("123", rec.TopicID)
	s.Equal("p1", rec.PostID)
}

func (s *LedgerTestSuite) TestConcurrentCommits() {
	led := s.openLedger()

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			done <- led.Commit(s.ctx, domain.SyncRecord{
				TopicID: fmt.Sprintf("%d", i),
				PostID:  "p",
			})
		}(i)
	}
	for i := 0; i < 20; i++ {
		s.NoError(<-done)
	}

	s.Equal(20, led.TotalSynced())
}
