package store

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory ticket store. It is constructed explicitly and
// injected (never a package-level singleton) so tests can reset state between
// runs. The mutex protects map integrity only; concurrent writers still
// follow last-write-wins semantics.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]Ticket
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]Ticket)}
}

// NewSeededMemoryStore creates a store preloaded with the given list under
// the default key.
func NewSeededMemoryStore(seed []Ticket) *MemoryStore {
	s := NewMemoryStore()
	s.data[DefaultKey] = CloneAll(seed)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneAll(s.data[key]), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, list []Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = CloneAll(list)
	return nil
}

// Reset drops all stored tickets. Used between test runs.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]Ticket)
}

var _ Store = (*MemoryStore)(nil)
