package registry

import (
	"context"
	"errors"
	"sync"
)

// MemStore is an in-memory Store used as a test double.
type MemStore struct {
	mu  sync.Mutex
	reg Registry

	// SaveErr, when set, is returned by Save. Lets tests exercise
	// persistence-failure paths.
	SaveErr error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{reg: Registry{Imports: []ImportRecord{}}}
}

func (s *MemStore) Load(context.Context) (*Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *MemStore) Save(_ context.Context, reg *Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if reg == nil {
		return errors.New("nil registry")
	}
	imports := make([]ImportRecord, len(reg.Imports))
	copy(imports, reg.Imports)
	s.reg = Registry{Imports: imports, LastUpdated: reg.LastUpdated}
	return nil
}

// Snapshot returns a deep copy of the current registry state for assertions.
func (s *MemStore) Snapshot() *Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *MemStore) snapshot() *Registry {
	imports := make([]ImportRecord, len(s.reg.Imports))
	copy(imports, s.reg.Imports)
	return &Registry{Imports: imports, LastUpdated: s.reg.LastUpdated}
}
