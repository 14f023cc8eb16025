// Package memstore is the in-memory store.Store implementation, the
// default for the web front-end and for tests.
package memstore

import (
	"context"
	"sync"

	"github.com/reasonware/inferlab/pkg/inferlab/store"
)

// Store keeps run records in memory, ordered by insertion.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]store.Run
	order []string // insertion order, oldest first
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun records one run, keyed by id.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, false, nil
	}
	return copyRun(r), true, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, copyRun(s.runs[s.order[i]]))
	}
	return out, nil
}

// PruneRuns drops all but the keep newest runs.
func (s *Store) PruneRuns(ctx context.Context, keep int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(s.order) <= keep {
		return nil, nil
	}
	cut := len(s.order) - keep
	removed := make([]string, cut)
	copy(removed, s.order[:cut])
	for _, id := range removed {
		delete(s.runs, id)
	}
	s.order = append([]string(nil), s.order[cut:]...)
	return removed, nil
}

func copyRun(r store.Run) store.Run {
	r.Goals = append([]string(nil), r.Goals...)
	r.FinalFacts = append([]string(nil), r.FinalFacts...)
	r.RuleIDs = append([]int(nil), r.RuleIDs...)
	r.Trace = append([]string(nil), r.Trace...)
	return r
}
