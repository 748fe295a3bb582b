// Package eventlog is the append-only audit trail: one JSON object per
// line, written under an advisory file lock so concurrent writers never
// interleave within a record.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

const (
	DefaultTailLimit = 200
	MaxTailLimit     = 5000
)

// Event is one audit record. Order and User are snapshots taken at append
// time; they are stored as opaque JSON on read-back.
type Event struct {
	TS    int64          `json:"ts"`
	Type  string         `json:"type"`
	Path  string         `json:"path"`
	IP    string         `json:"ip"`
	Order any            `json:"order"`
	Data  map[string]any `json:"data,omitempty"`
	User  any            `json:"user,omitempty"`
}

// Sink records audit events. Logging is best-effort: callers swallow
// append failures, business operations never depend on the trail.
type Sink interface {
	Append(ev Event) error
}

// Log is the flat-file ndjson sink. The mutex serializes goroutines of
// this process; the flock covers other processes sharing the data dir.
type Log struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

func New(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return nil, fmt.Errorf("eventlog: create dir: %w", err)
	}
	return &Log{path: path, lock: flock.New(path + ".lock")}, nil
}

// Append durably writes one record. The lock is held only across the
// write and flush of that single line.
func (l *Log) Append(ev Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("eventlog: marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("eventlog: acquire lock: %w", err)
	}
	defer l.lock.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("eventlog: open log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("eventlog: write event: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("eventlog: sync log: %w", err)
	}
	return nil
}

// Tail returns up to limit of the most recent records in chronological
// order (newest last). limit is clamped to [1, MaxTailLimit]. The file is
// scanned backward from the end; malformed lines are skipped silently.
func (l *Log) Tail(limit int) ([]Event, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxTailLimit {
		limit = MaxTailLimit
	}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("eventlog: open log: %w", err)
	}
	defer f.Close()

	lines, err := tailLines(f, limit)
	if err != nil {
		return nil, fmt.Errorf("eventlog: scan log: %w", err)
	}

	// lines come newest-first; decode then flip to chronological.
	events := make([]Event, 0, len(lines))
	for _, ln := range lines {
		var ev Event
		if err := json.Unmarshal(ln, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
