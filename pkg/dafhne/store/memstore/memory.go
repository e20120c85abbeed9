// Package memstore is an in-memory store.Store implementation: a
// sync.RWMutex over maps of records, useful for tests and for eval runs
// that do not need to outlive the process.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/dafhne/engine/pkg/dafhne/internalerr"
	"github.com/dafhne/engine/pkg/dafhne/store"
)

// Store is an in-memory implementation of store.Store, safe for
// concurrent use.
type Store struct {
	mu     sync.RWMutex
	spaces map[string]store.SpaceRecord
	runs   []store.RunRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{spaces: make(map[string]store.SpaceRecord)}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// PutSpace inserts or overwrites a space record, keyed by ID.
func (s *Store) PutSpace(ctx context.Context, rec store.SpaceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces[rec.ID] = rec
	return nil
}

// GetSpace returns the space record for id.
func (s *Store) GetSpace(ctx context.Context, id string) (store.SpaceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.spaces[id]
	if !ok {
		return store.SpaceRecord{}, internalerr.ErrNotFound
	}
	return rec, nil
}

// ListSpaces returns every space record, ordered by ID for determinism.
func (s *Store) ListSpaces(ctx context.Context) ([]store.SpaceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.SpaceRecord, 0, len(s.spaces))
	for _, rec := range s.spaces {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PutRun appends an eval run record.
func (s *Store) PutRun(ctx context.Context, rec store.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, rec)
	return nil
}

// ListRuns returns the most recent limit run records, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.runs)
	out := make([]store.RunRecord, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, s.runs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
