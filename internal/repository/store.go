// Package repository keeps an in-memory history of completed fitting runs.
package repository

import (
	"context"
	"sync"

	"github.com/termolab/pyrofit/internal/domain/model"
)

// defaultMaxEntries bounds the history before old runs are evicted.
const defaultMaxEntries = 100

// Store is the run-history contract used by the session.
type Store interface {
	// Put records a completed run, evicting the oldest entry when full.
	Put(ctx context.Context, result model.FitResult)

	// Get returns a run by id.
	Get(ctx context.Context, runID string) (model.FitResult, error)

	// Recent returns up to n runs, newest first.
	Recent(ctx context.Context, n int) ([]model.FitResult, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) int
}

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxEntries bounds how many runs are retained.
func WithMaxEntries(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// MemoryStore implements Store with a mutex-guarded map plus insertion
// order for eviction and newest-first listing.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]model.FitResult
	order      []string // insertion order, oldest first
	maxEntries int
}

// NewMemoryStore creates a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:       make(map[string]model.FitResult),
		maxEntries: defaultMaxEntries,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Put records a completed run.
func (s *MemoryStore) Put(_ context.Context, result model.FitResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[result.RunID]; !exists {
		s.order = append(s.order, result.RunID)
	}
	s.byID[result.RunID] = result

	for len(s.order) > s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
}

// Get returns a run by id.
func (s *MemoryStore) Get(_ context.Context, runID string) (model.FitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.byID[runID]
	if !ok {
		return model.FitResult{}, ErrNotFound
	}
	return result, nil
}

// Recent returns up to n runs, newest first.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]model.FitResult, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.order) {
		n = len(s.order)
	}
	out := make([]model.FitResult, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}

// Count returns the number of stored runs.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
