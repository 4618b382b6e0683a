package timer

import (
	"context"
	"sync"
	"time"
)

// MemoryDeadlineStore is an in-process DeadlineStore used in tests and as
// a fallback when no external store is configured.
type MemoryDeadlineStore struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

func NewMemoryDeadlineStore() *MemoryDeadlineStore {
	return &MemoryDeadlineStore{deadlines: make(map[string]time.Time)}
}

func (s *MemoryDeadlineStore) Read(ctx context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.deadlines[key]
	return deadline, ok, nil
}

func (s *MemoryDeadlineStore) Write(ctx context.Context, key string, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[key] = deadline
	return nil
}

func (s *MemoryDeadlineStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadlines, key)
	return nil
}
