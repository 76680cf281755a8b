// Package store persists messages and their audit history.
package store

import (
	"context"

	"formdesk/internal/message/models"
	"formdesk/pkg/domain"
)

// MessageStore is the message persistence surface the service consumes.
// Implementations assign LastUpdated on every persist.
type MessageStore interface {
	// Insert stores a new message.
	Insert(ctx context.Context, m *models.Message) error

	// Fetch returns the message with the given id, or sentinel.ErrNotFound.
	Fetch(ctx context.Context, id domain.MessageID) (*models.Message, error)

	// Update persists the whole record in one call and returns the stored
	// row, or sentinel.ErrNotFound when the message no longer exists.
	Update(ctx context.Context, m *models.Message) (*models.Message, error)

	// List returns every message plus any per-row read errors. A bad row
	// does not abort the listing.
	List(ctx context.Context) ([]*models.Message, []error)
}

// HistoryStore is the append-only audit-trail surface. Items are never
// deleted; only the unread flag is ever written after creation.
type HistoryStore interface {
	// Insert appends one history item.
	Insert(ctx context.Context, item *models.HistoryItem) error

	// ListByMessage returns the items owned by a message in storage order.
	ListByMessage(ctx context.Context, id domain.MessageID) ([]*models.HistoryItem, error)

	// Fetch returns one item by id, or sentinel.ErrNotFound.
	Fetch(ctx context.Context, id domain.HistoryItemID) (*models.HistoryItem, error)

	// SetUnread persists the item's unread flag.
	SetUnread(ctx context.Context, item *models.HistoryItem) error
}
