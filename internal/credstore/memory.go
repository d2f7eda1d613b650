package credstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store used in tests and when no Redis
// server is reachable at startup.  Sessions then survive only as long as the
// process, which is an acceptable dev-mode degradation.
type MemoryStore struct {
	mu   sync.Mutex
	vals map[string]string
}

// NewMemoryStore returns an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vals: map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vals[key]
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vals, key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals = map[string]string{}
	return nil
}
