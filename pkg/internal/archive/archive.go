// Package archive persists session snapshots as gzip-compressed JSON so a
// finished experiment survives the browser-session-like lifetime of the
// client. One file per save; loading a file restores the snapshot.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/klauspost/compress/gzip"
)

// Store writes and reads snapshot archives under a base directory.
type Store struct {
	dir   string
	level int
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCompressionLevel overrides the gzip level.
func WithCompressionLevel(level int) Option {
	return func(s *Store) {
		if level >= gzip.HuffmanOnly && level <= gzip.BestCompression {
			s.level = level
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string, options ...Option) *Store {
	s := &Store{
		dir:   dir,
		level: gzip.DefaultCompression,
		now:   time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Save writes the snapshot and returns the archive path.
func (s *Store) Save(snap types.SessionSnapshot) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: create dir: %w", err)
	}

	name := fmt.Sprintf("experiment_%d_%s.json.gz",
		snap.ExperimentID, s.now().UTC().Format("20060102T150405"))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("archive: create file: %w", err)
	}
	defer f.Close()

	zw, err := gzip.NewWriterLevel(f, s.level)
	if err != nil {
		return "", fmt.Errorf("archive: gzip writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("archive: encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("archive: flush: %w", err)
	}
	return path, nil
}

// Load restores a snapshot from an archive file.
func (s *Store) Load(path string) (types.SessionSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.SessionSnapshot{}, fmt.Errorf("archive: open: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return types.SessionSnapshot{}, fmt.Errorf("archive: gzip reader: %w", err)
	}
	defer zr.Close()

	var snap types.SessionSnapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return types.SessionSnapshot{}, fmt.Errorf("archive: decode snapshot: %w", err)
	}
	return snap, nil
}

// List returns the archive paths under the store directory, newest last.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "experiment_*.json.gz"))
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}
	return matches, nil
}
