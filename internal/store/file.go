package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists each snapshot as a single JSON document under a cache
// directory. Writes go to a temp file in the same directory followed by a
// rename, so readers never observe a partially written snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the snapshot file path for a (team, season).
func (fs *FileStore) Path(team, season string) string {
	name := fmt.Sprintf("%s_%s.json", strings.ReplaceAll(team, " ", "_"), season)
	return filepath.Join(fs.dir, name)
}

// Load reads and decodes the snapshot for a (team, season).
func (fs *FileStore) Load(ctx context.Context, team, season string) (*Snapshot, error) {
	data, err := os.ReadFile(fs.Path(team, season))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s %s: %w", team, season, ErrNotBuilt)
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot atomically, replacing any prior one.
func (fs *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	final := fs.Path(snap.Team, snap.Season)
	tmp, err := os.CreateTemp(fs.dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}
