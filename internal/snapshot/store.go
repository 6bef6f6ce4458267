// Package snapshot persists the last-known item set. The file is the only
// durable state in the whole system: a pretty-printed JSON array, replaced
// wholesale at the end of every successful run.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"shop-monitor/pkg/models"
)

// Store reads and writes the snapshot file with a read-through cache. The
// cache lives for the process lifetime and is refreshed by every Write, so
// the control surface can serve the current set without re-parsing the file.
type Store struct {
	path string

	mu     sync.Mutex
	cached []models.ShopItem
	loaded bool
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read returns the persisted item set, or (nil, nil) when no snapshot has
// ever been written — the first-run state, not an error.
func (s *Store) Read() ([]models.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.cached, nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	var items []models.ShopItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.path, err)
	}

	s.cached = items
	s.loaded = true
	return items, nil
}

// Write persists the items atomically: marshal to a temp file in the same
// directory, then rename over the old snapshot. A crash mid-write leaves the
// previous snapshot intact.
func (s *Store) Write(items []models.ShopItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}

	s.cached = items
	s.loaded = true
	return nil
}

// Cached returns the in-memory view without touching disk, and whether one
// exists yet.
func (s *Store) Cached() ([]models.ShopItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached, s.loaded
}

// Path returns the on-disk location of the snapshot.
func (s *Store) Path() string { return s.path }
