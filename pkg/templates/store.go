package templates

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/caselens/pkg/logging"
	"github.com/entrhq/caselens/pkg/storage"
)

// Store is an in-memory cache of the persisted template mapping.
//
// The cache has an explicit lifecycle: Init performs the first load (seeding
// defaults when storage has none), Refresh re-reads storage, and Get serves
// from memory. Between refreshes the cache may be stale by up to the
// refresh interval. Writes replace the whole mapping in storage; concurrent
// writers in other processes are last-write-wins.
type Store struct {
	kv       storage.KV
	logger   *logging.Logger
	mu       sync.RWMutex
	snapshot Snapshot
	loaded   bool
	loadedAt time.Time
}

// NewStore creates a store over kv. Nothing is read until Init.
func NewStore(kv storage.KV, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard("templates")
	}
	return &Store{kv: kv, logger: logger}
}

// Init loads the mapping from storage, seeding and persisting the default
// templates when the storage key is absent.
func (s *Store) Init(ctx context.Context) error {
	snapshot, found, err := s.read(ctx)
	if err != nil {
		return err
	}

	if !found {
		snapshot = Defaults()
		s.logger.Infof("No stored templates, seeding %d defaults", len(snapshot))
		if err := s.write(ctx, snapshot); err != nil {
			return err
		}
	}

	s.replace(snapshot)
	return nil
}

// Refresh re-reads storage into the cache. It reports whether the cached
// mapping changed.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	snapshot, found, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	if !found {
		snapshot = Snapshot{}
	}

	s.mu.RLock()
	changed := !s.loaded || !equal(s.snapshot, snapshot)
	s.mu.RUnlock()

	s.replace(snapshot)
	return changed, nil
}

// Loaded reports whether the first load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadedAt returns when the cache was last filled from storage.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Get returns the cached template with the given id.
func (s *Store) Get(id string) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return Template{}, ErrNotLoaded
	}
	t, ok := s.snapshot[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return t, nil
}

// Snapshot returns a copy of the cached mapping.
func (s *Store) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return s.snapshot.Clone(), nil
}

// Size returns the number of cached templates, default and custom.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot)
}

// Upsert stores t under t.ID and persists the whole mapping. Adding a new
// custom template beyond MaxCustomTemplates fails with ErrCapacity.
func (s *Store) Upsert(ctx context.Context, t Template) error {
	if t.ID == "" {
		return errors.New("template id is required")
	}

	next, err := s.Snapshot()
	if err != nil {
		return err
	}

	if _, exists := next[t.ID]; !exists && !t.IsDefault && next.CustomCount() >= MaxCustomTemplates {
		return fmt.Errorf("%w: %d custom templates", ErrCapacity, MaxCustomTemplates)
	}
	next[t.ID] = t

	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.replace(next)
	return nil
}

// Delete removes a custom template and persists the whole mapping.
func (s *Store) Delete(ctx context.Context, id string) error {
	next, err := s.Snapshot()
	if err != nil {
		return err
	}

	t, ok := next[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if t.IsDefault {
		return fmt.Errorf("%w: %s", ErrDefaultTemplate, id)
	}
	delete(next, id)

	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.replace(next)
	return nil
}

func (s *Store) read(ctx context.Context) (Snapshot, bool, error) {
	var snapshot Snapshot
	err := storage.Decode(ctx, s.kv, StorageKey, &snapshot)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read templates: %w", err)
	}
	if snapshot == nil {
		return nil, false, nil
	}
	return snapshot, true, nil
}

func (s *Store) write(ctx context.Context, snapshot Snapshot) error {
	if err := s.kv.Set(ctx, map[string]any{StorageKey: snapshot}); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}
	return nil
}

func (s *Store) replace(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot
	s.loaded = true
	s.loadedAt = time.Now()
}

func equal(a, b Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for id, t := range a {
		if other, ok := b[id]; !ok || other != t {
			return false
		}
	}
	return true
}
