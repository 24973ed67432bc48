// Package cache implements the persistent transform cache as a flat JSON
// file keyed by file key.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"go.trai.ch/zerr"

	"github.com/refractlabs/refract/internal/core/domain"
)

const storeFile = "transforms.json"

type storeState struct {
	Fingerprint string                        `json:"fingerprint,omitempty"`
	Records     map[string]domain.CacheRecord `json:"records"`
}

// Store implements ports.TransformCache. Mutations stage in memory and only
// reach disk on Flush, so an aborted pass never leaves partial state behind.
// An empty path keeps the store memory-only.
type Store struct {
	path  string
	mu    sync.RWMutex
	state storeState
	dirty bool
}

// NewStore opens the cache under the given directory, loading any previously
// flushed state. Pass an empty dir for a memory-only store.
func NewStore(dir string) (*Store, error) {
	s := &Store{state: storeState{Records: make(map[string]domain.CacheRecord)}}
	if dir != "" {
		s.path = filepath.Join(filepath.Clean(dir), storeFile)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read transform cache")
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return zerr.Wrap(err, "failed to unmarshal transform cache")
	}
	if s.state.Records == nil {
		s.state.Records = make(map[string]domain.CacheRecord)
	}
	return nil
}

func (s *Store) Get(key string) (*domain.CacheRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.state.Records[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) Put(rec domain.CacheRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Records[rec.Key] = rec
	s.dirty = true
	return nil
}

func (s *Store) InvalidateAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Records = make(map[string]domain.CacheRecord)
	s.state.Fingerprint = ""
	s.dirty = true
	return nil
}

func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.state.Records))
	for key := range s.state.Records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Prune(live mapset.Set[string]) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for key := range s.state.Records {
		if !live.Contains(key) {
			delete(s.state.Records, key)
			removed = append(removed, key)
		}
	}
	if len(removed) > 0 {
		s.dirty = true
		sort.Strings(removed)
	}
	return removed, nil
}

func (s *Store) Fingerprint() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Fingerprint, nil
}

func (s *Store) SetFingerprint(fp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Fingerprint = fp
	s.dirty = true
	return nil
}

func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" || !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal transform cache")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create transform cache directory")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write transform cache")
	}

	s.dirty = false
	return nil
}
