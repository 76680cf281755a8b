package store

import (
	"context"
	"sync"

	"formdesk/internal/message/models"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
	"formdesk/pkg/requestcontext"
)

// InMemoryMessageStore keeps messages in insertion order. Used by unit tests
// and dev mode.
type InMemoryMessageStore struct {
	mu       sync.RWMutex
	messages map[domain.MessageID]models.Message
	order    []domain.MessageID

	// FailUpdate forces Update to report ErrUnavailable.
	FailUpdate bool
	// FailInsert forces Insert to report ErrUnavailable.
	FailInsert bool
}

// NewMemoryMessages constructs an empty in-memory message store.
func NewMemoryMessages() *InMemoryMessageStore {
	return &InMemoryMessageStore{messages: make(map[domain.MessageID]models.Message)}
}

func (s *InMemoryMessageStore) Insert(ctx context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert {
		return sentinel.ErrUnavailable
	}

	m.LastUpdated = requestcontext.Now(ctx)
	s.messages[m.ID] = *m
	s.order = append(s.order, m.ID)
	return nil
}

func (s *InMemoryMessageStore) Fetch(_ context.Context, id domain.MessageID) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := m
	return &copied, nil
}

func (s *InMemoryMessageStore) Update(ctx context.Context, m *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailUpdate {
		return nil, sentinel.ErrUnavailable
	}
	if _, ok := s.messages[m.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}

	m.LastUpdated = requestcontext.Now(ctx)
	s.messages[m.ID] = *m
	copied := *m
	return &copied, nil
}

func (s *InMemoryMessageStore) List(_ context.Context) ([]*models.Message, []error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Message, 0, len(s.order))
	for _, id := range s.order {
		m := s.messages[id]
		copied := m
		out = append(out, &copied)
	}
	return out, nil
}

// InMemoryHistoryStore keeps history items in append order per message.
type InMemoryHistoryStore struct {
	mu        sync.RWMutex
	items     map[domain.HistoryItemID]models.HistoryItem
	byMessage map[domain.MessageID][]domain.HistoryItemID

	// FailInsert forces Insert to report ErrUnavailable.
	FailInsert bool
}

// NewMemoryHistory constructs an empty in-memory history store.
func NewMemoryHistory() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		items:     make(map[domain.HistoryItemID]models.HistoryItem),
		byMessage: make(map[domain.MessageID][]domain.HistoryItemID),
	}
}

func (s *InMemoryHistoryStore) Insert(_ context.Context, item *models.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInsert {
		return sentinel.ErrUnavailable
	}

	s.items[item.ID] = *item
	s.byMessage[item.MessageID] = append(s.byMessage[item.MessageID], item.ID)
	return nil
}

func (s *InMemoryHistoryStore) ListByMessage(_ context.Context, id domain.MessageID) ([]*models.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byMessage[id]
	out := make([]*models.HistoryItem, 0, len(ids))
	for _, itemID := range ids {
		item := s.items[itemID]
		copied := item
		out = append(out, &copied)
	}
	return out, nil
}

// All returns every stored history item, in no particular order. Test helper.
func (s *InMemoryHistoryStore) All() []models.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

func (s *InMemoryHistoryStore) Fetch(_ context.Context, id domain.HistoryItemID) (*models.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (s *InMemoryHistoryStore) SetUnread(_ context.Context, item *models.HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[item.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.IsUnread = item.IsUnread
	s.items[item.ID] = stored
	return nil
}
