package favorites

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Projector rebuilds the current favorite set by replaying every partition
// under the data directory. Nothing is cached between calls; the log on
// disk is the single source of truth. It never coordinates with appenders,
// so a concurrently in-flight append may be missed.
type Projector struct {
	dataDir string
}

func NewProjector(dataDir string) *Projector {
	return &Projector{dataDir: dataDir}
}

// Project replays the full log and returns the favorite papers ordered most
// recently favorited first. A missing data directory is an empty log, not
// an error. A read failure on an existing partition aborts the whole
// projection: a silently skipped partition would surface as mass
// un-favoriting.
func (p *Projector) Project() ([]Paper, error) {
	if _, err := os.Stat(p.dataDir); os.IsNotExist(err) {
		return []Paper{}, nil
	}

	// Glob returns paths sorted by name, which for YYYY-MM-DD partitions is
	// also chronological. Correctness does not depend on that: the fold
	// resolves by event time, not scan order.
	paths, err := filepath.Glob(filepath.Join(p.dataDir, "*.jsonl"))
	if err != nil {
		return nil, &StorageError{Op: "glob", Path: p.dataDir, Err: err}
	}

	proj := newProjection()
	for _, path := range paths {
		if err := p.replayPartition(path, proj); err != nil {
			return nil, err
		}
	}

	return proj.papers(), nil
}

func (p *Projector) replayPartition(path string, proj *projection) error {
	f, err := os.Open(path)
	if err != nil {
		return &StorageError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	// ReadBytes imposes no line cap: the attribute bag is open and paper
	// summaries are unbounded, so a valid record can run to any length.
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			applyLine(path, line, proj)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &StorageError{Op: "read", Path: path, Err: err}
		}
	}
}

func applyLine(path string, line []byte, proj *projection) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		skippedRecords.Inc()
		slog.Debug("Skipping malformed event record", "partition", filepath.Base(path), "error", err)
		return
	}

	proj.apply(ev)
}
