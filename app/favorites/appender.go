package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Appender writes favorite events to the append-only log, one JSONL file
// per UTC calendar date under the data directory.
type Appender struct {
	dataDir string
}

func NewAppender(dataDir string) *Appender {
	return &Appender{dataDir: dataDir}
}

// Append records one add/remove action for a paper. The event time is
// assigned here, never taken from the client, so clients cannot manipulate
// last-write-wins ordering. Safe under concurrent appenders: the record is
// written with a single append-mode write and no existing file content is
// ever read back or rewritten.
func (a *Appender) Append(action string, paper Paper) error {
	if action != ActionAdd && action != ActionRemove {
		return fmt.Errorf("%w: got %q", ErrUnknownAction, action)
	}

	key := paper.Key()
	if key == "" {
		return ErrMissingKey
	}

	now := time.Now().UTC()
	event := Event{
		EventID:   uuid.NewString(),
		EventTime: now.Format(time.RFC3339Nano),
		Action:    action,
		PaperID:   key,
		Paper:     paper,
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Idempotent: creating an already-existing directory is a no-op.
	if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: a.dataDir, Err: err}
	}

	path := a.partitionPath(now)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &StorageError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return &StorageError{Op: "append", Path: path, Err: err}
	}

	return nil
}

func (a *Appender) partitionPath(t time.Time) string {
	return filepath.Join(a.dataDir, t.UTC().Format("2006-01-02")+".jsonl")
}
