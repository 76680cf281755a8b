// Package audit produces the append-only history trail. Every field change
// and every sent notification becomes one HistoryItem, unread on creation.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"formdesk/internal/message/models"
	"formdesk/internal/message/store"
	"formdesk/pkg/domain"
	"formdesk/pkg/requestcontext"
)

// Stream receives change events after their history item landed. Publishing
// is fire-and-forget; implementations must not block the recording path.
type Stream interface {
	Publish(ctx context.Context, event ChangeEvent)
}

// ChangeEvent is the wire form of one audit entry for downstream consumers.
type ChangeEvent struct {
	MessageID     string    `json:"messageId"`
	HistoryItemID string    `json:"historyItemId"`
	Account       string    `json:"account"`
	ChangeType    string    `json:"changeType"`
	Timestamp     time.Time `json:"timestamp"`
}

// Recorder constructs and persists history items. Construction never fails;
// only the storage call can.
type Recorder struct {
	history store.HistoryStore
	stream  Stream
	logger  *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithStream attaches a change-event stream.
func WithStream(stream Stream) Option {
	return func(r *Recorder) {
		r.stream = stream
	}
}

// NewRecorder constructs a Recorder backed by the given history store.
func NewRecorder(history store.HistoryStore, opts ...Option) (*Recorder, error) {
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}

	rec := &Recorder{history: history, logger: slog.Default()}
	for _, opt := range opts {
		opt(rec)
	}
	return rec, nil
}

// RecordFieldChange appends one history item for one changed field, carrying
// the value before and after the change.
func (r *Recorder) RecordFieldChange(ctx context.Context, messageID domain.MessageID, field, original, updated string) (*models.HistoryItem, error) {
	payload, err := json.Marshal(models.FieldChangePayload{Original: original, Updated: updated})
	if err != nil {
		return nil, fmt.Errorf("marshal field change payload: %w", err)
	}
	return r.record(ctx, messageID, field, payload)
}

// RecordEmailSent appends one history item for a delivered notification,
// keyed by the notification code.
func (r *Recorder) RecordEmailSent(ctx context.Context, messageID domain.MessageID, code string, payload models.EmailPayload) (*models.HistoryItem, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}
	return r.record(ctx, messageID, code, raw)
}

func (r *Recorder) record(ctx context.Context, messageID domain.MessageID, changeType string, payload json.RawMessage) (*models.HistoryItem, error) {
	account := requestcontext.Account(ctx)
	if account == "" {
		account = models.SystemAccount
	}

	item := &models.HistoryItem{
		ID:         domain.NewHistoryItemID(),
		MessageID:  messageID,
		Account:    account,
		ChangeType: changeType,
		IsUnread:   true,
		Payload:    payload,
		CreatedAt:  requestcontext.Now(ctx),
	}

	if err := r.history.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("insert history item: %w", err)
	}

	if r.stream != nil {
		r.stream.Publish(ctx, ChangeEvent{
			MessageID:     messageID.String(),
			HistoryItemID: item.ID.String(),
			Account:       item.Account,
			ChangeType:    item.ChangeType,
			Timestamp:     item.CreatedAt,
		})
	}

	return item, nil
}
