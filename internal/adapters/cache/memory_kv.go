package cache

import (
	"context"
	"sync"

	"github.com/hobbyforge/storefront/internal/ports"
)

// MemoryKeyValue keeps every scope in process memory. It backs tests and
// redis-less local runs; ending the process ends the "session", which
// matches the session-scope contract.
type MemoryKeyValue struct {
	mu   sync.Mutex
	data map[ports.Scope]map[string][]byte
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{data: make(map[ports.Scope]map[string][]byte)}
}

func (s *MemoryKeyValue) Get(_ context.Context, scope ports.Scope, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.data[scope][key]
	return value, found, nil
}

func (s *MemoryKeyValue) Set(_ context.Context, scope ports.Scope, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[scope] == nil {
		s.data[scope] = make(map[string][]byte)
	}
	s.data[scope][key] = value
	return nil
}

func (s *MemoryKeyValue) Delete(_ context.Context, scope ports.Scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[scope], key)
	return nil
}
