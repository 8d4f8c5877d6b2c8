// Package memory is the persistent project memory: a flat key-value map
// mirrored to a single JSON file.
//
// The whole map is read once at startup and rewritten on every mutation.
// That is deliberate: entries are small, writes are rare, and one readable
// file beats a database for something an operator may want to inspect or
// hand-edit between runs.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sensei-mcp/sensei/internal/logger"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Entry is one remembered fact.
type Entry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

// Store holds the in-memory map and its backing file.
type Store struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore loads the memory file at path. A missing file starts an empty
// store silently; a corrupt or unreadable one starts empty with a logged
// warning and is overwritten by the next successful Set.
func NewStore(ctx context.Context, path string) *Store {
	s := &Store{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.G(ctx).WithError(err).WithField("file", path).
				Warn("cannot read memory file, starting empty")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.G(ctx).WithError(err).WithField("file", path).
			Warn("memory file is corrupt, starting empty")
		s.entries = make(map[string]Entry)
	}
	return s
}

// Set upserts a key and flushes the whole map to disk synchronously. The
// in-memory entry is kept even when the flush fails, so the value survives
// for the rest of the run; the error tells the caller durability is gone.
func (s *Store) Set(ctx context.Context, key, value string) (Entry, error) {
	if key == "" {
		return Entry{}, errors.New("memory key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		Key:       key,
		Value:     value,
		Timestamp: timeNow().UTC().Format(time.RFC3339Nano),
	}
	s.entries[key] = entry

	if err := s.flushLocked(); err != nil {
		logger.G(ctx).WithError(err).WithField("file", s.path).
			Warn("writing memory file failed, value kept in memory only")
		return entry, err
	}
	return entry, nil
}

// Get returns the entry for key. Absence is ok=false, not an error.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// List returns every entry, newest first. Ties break on key so the order
// is deterministic.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Len returns how many entries are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating memory directory")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling memory entries")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing memory file")
	}
	return nil
}
