package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zsxq_sync/internal/domain"
)

// CorruptError reports an unparseable backing file. The file has
// already been renamed aside; nothing is deleted.
type CorruptError struct {
	Path       string
	BackupPath string
	Err        error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("ledger file %s is corrupted (backed up to %s): %v", e.Path, e.BackupPath, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// FileBackend stores the ledger as a single JSON document, replaced
// atomically on every save.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load(_ context.Context) (*domain.LedgerState, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewLedgerState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	var state domain.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%s", b.path, time.Now().Format("20060102-150405"))
		if renameErr := os.Rename(b.path, backup); renameErr != nil {
			return nil, fmt.Errorf("back up corrupted ledger file: %w", renameErr)
		}
		return nil, &CorruptError{Path: b.path, BackupPath: backup, Err: err}
	}

	if state.Records == nil {
		state.Records = make(map[string]domain.SyncRecord)
	}
	// Map keys are the topic ids; mirror them onto the records.
	for id, rec := range state.Records {
		rec.TopicID = id
		state.Records[id] = rec
	}
	return &state, nil
}

func (b *FileBackend) Save(_ context.Context, state *domain.LedgerState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close ledger file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
