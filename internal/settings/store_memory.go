package settings

import (
	"context"
	"sync"

	"formdesk/pkg/platform/sentinel"
)

// InMemoryStore is a map-backed option store for unit tests and dev mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	options map[string]string
}

// NewMemory constructs an in-memory option store seeded with the given
// options. A nil seed yields an empty store.
func NewMemory(seed map[string]string) *InMemoryStore {
	options := make(map[string]string, len(seed))
	for k, v := range seed {
		options[k] = v
	}
	return &InMemoryStore{options: options}
}

func (s *InMemoryStore) GetOption(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.options[name]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return v, nil
}

// SetOption stores an option value.
func (s *InMemoryStore) SetOption(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options[name] = value
}
