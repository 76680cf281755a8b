package store

import (
	"context"
	"sync"

	"formdesk/internal/label"
	"formdesk/pkg/platform/sentinel"
)

// DefaultLabelFallback is returned by the memory store's default-label rule
// when the metadata carries no page title.
const DefaultLabelFallback = "Other"

// InMemoryStore is a map-backed label store for unit tests and dev mode.
type InMemoryStore struct {
	mu     sync.RWMutex
	byName map[string]label.Label

	// FailInsert forces Insert to report ErrUnavailable, for exercising
	// the best-effort degrade path.
	FailInsert bool
}

// NewMemory constructs an empty in-memory label store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{byName: make(map[string]label.Label)}
}

func (s *InMemoryStore) FetchByName(_ context.Context, name string) (*label.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byName[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := l
	return &copied, nil
}

func (s *InMemoryStore) Insert(_ context.Context, l *label.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert {
		return sentinel.ErrUnavailable
	}
	if _, exists := s.byName[l.Name]; exists {
		return sentinel.ErrConflict
	}
	s.byName[l.Name] = *l
	return nil
}

func (s *InMemoryStore) DefaultLabel(_ context.Context, meta map[string]string) (string, error) {
	if title := meta["page_title"]; title != "" {
		return title, nil
	}
	return DefaultLabelFallback, nil
}

// Len reports the number of stored labels.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
