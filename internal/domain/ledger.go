package domain

import "time"

// DuplicatePostID is the sentinel published id committed when the
// publish target already holds a post with the same title.
const DuplicatePostID = "duplicate"

// SyncRecord marks one topic as published. A topic id appears at most
// once in the ledger and is never republished.
type SyncRecord struct {
	TopicID   string    `json:"-" db:"topic_id"`
	PostID    string    `json:"post_id" db:"post_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	SyncedAt  time.Time `json:"synced_at" db:"synced_at"`
}

// RunSummary is the outcome of one sync run.
type RunSummary struct {
	Mode      string        `json:"mode" db:"mode"`
	Total     int           `json:"total" db:"total"`
	Succeeded int           `json:"succeeded" db:"succeeded"`
	Skipped   int           `json:"skipped" db:"skipped"`
	Failed    int           `json:"failed" db:"failed"`
	Timestamp time.Time     `json:"timestamp" db:"finished_at"`
	Duration  time.Duration `json:"duration" db:"-"`
}

// LedgerState is the full persisted sync state: loaded wholesale at
// run start, flushed after every commit.
type LedgerState struct {
	Records   map[string]SyncRecord `json:"synced_topics"`
	Watermark time.Time             `json:"last_sync_time"`
	Runs      []RunSummary          `json:"sync_history"`
}

// NewLedgerState returns an empty state with initialized containers.
func NewLedgerState() *LedgerState {
	return &LedgerState{Records: make(map[string]SyncRecord)}
}
