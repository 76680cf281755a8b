package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdesk/internal/message/models"
	"formdesk/internal/message/store"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
	"formdesk/pkg/requestcontext"
)

func TestInMemoryMessageStore(t *testing.T) {
	s := store.NewMemoryMessages()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	first := &models.Message{ID: domain.NewMessageID(), Email: "a@example.com", StatusCode: "new"}
	second := &models.Message{ID: domain.NewMessageID(), Email: "b@example.com", StatusCode: "new"}
	require.NoError(t, s.Insert(ctx, first))
	require.NoError(t, s.Insert(ctx, second))

	t.Run("fetch stamps and round-trips", func(t *testing.T) {
		got, err := s.Fetch(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", got.Email)
		assert.Equal(t, now, got.LastUpdated)
	})

	t.Run("fetch unknown id", func(t *testing.T) {
		_, err := s.Fetch(ctx, domain.NewMessageID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		msgs, errs := s.List(ctx)
		require.Empty(t, errs)
		require.Len(t, msgs, 2)
		assert.Equal(t, first.ID, msgs[0].ID)
		assert.Equal(t, second.ID, msgs[1].ID)
	})

	t.Run("update restamps last updated", func(t *testing.T) {
		later := requestcontext.WithTime(ctx, now.Add(time.Hour))
		first.StatusCode = "resolved"
		updated, err := s.Update(later, first)
		require.NoError(t, err)
		assert.Equal(t, "resolved", updated.StatusCode)
		assert.Equal(t, now.Add(time.Hour), updated.LastUpdated)
	})

	t.Run("update unknown id", func(t *testing.T) {
		_, err := s.Update(ctx, &models.Message{ID: domain.NewMessageID()})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("fetched copy is isolated", func(t *testing.T) {
		got, err := s.Fetch(ctx, second.ID)
		require.NoError(t, err)
		got.Email = "mutated@example.com"

		again, err := s.Fetch(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", again.Email)
	})
}

func TestInMemoryHistoryStore(t *testing.T) {
	s := store.NewMemoryHistory()
	ctx := context.Background()
	messageID := domain.NewMessageID()

	first := &models.HistoryItem{ID: domain.NewHistoryItemID(), MessageID: messageID, ChangeType: "code", IsUnread: true}
	second := &models.HistoryItem{ID: domain.NewHistoryItemID(), MessageID: messageID, ChangeType: "note", IsUnread: true}
	require.NoError(t, s.Insert(ctx, first))
	require.NoError(t, s.Insert(ctx, second))

	t.Run("list by message keeps append order", func(t *testing.T) {
		items, err := s.ListByMessage(ctx, messageID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, first.ID, items[0].ID)
		assert.Equal(t, second.ID, items[1].ID)
	})

	t.Run("list for unknown message is empty", func(t *testing.T) {
		items, err := s.ListByMessage(ctx, domain.NewMessageID())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("set unread", func(t *testing.T) {
		first.IsUnread = false
		require.NoError(t, s.SetUnread(ctx, first))

		got, err := s.Fetch(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, got.IsUnread)
	})

	t.Run("set unread unknown id", func(t *testing.T) {
		err := s.SetUnread(ctx, &models.HistoryItem{ID: domain.NewHistoryItemID()})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
