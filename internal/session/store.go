package session

import (
	"context"
	"sync"
)

// MemoryStore keeps session -> cart mappings in process memory. Suitable for
// single-instance deployments and tests; use the Postgres store when the
// storefront runs behind more than one replica.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.carts[key], nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = value
	return nil
}
