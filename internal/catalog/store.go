package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists snapshots as a single JSON document. Writes are atomic:
// a temp file in the target directory is renamed over the artifact, so a
// reader never observes a half-written catalog.
type Store struct {
	path string
}

// NewStore creates a store writing to and reading from path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot artifact location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the snapshot atomically.
func (s *Store) Save(snap *Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename snapshot: %w", err)
	}

	return nil
}

// Load reads the persisted snapshot. A missing artifact is the defined
// "no data yet" state and yields an empty snapshot, not an error; a
// present but unreadable artifact is a real error.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if snap.Videos == nil {
		snap.Videos = []Video{}
	}
	if snap.Playlists == nil {
		snap.Playlists = []Playlist{}
	}

	return &snap, nil
}
