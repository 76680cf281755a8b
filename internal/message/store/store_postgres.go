package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"formdesk/internal/message/models"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
	"formdesk/pkg/requestcontext"
)

// PostgresMessageStore persists messages in PostgreSQL.
type PostgresMessageStore struct {
	db *sql.DB
}

// NewPostgresMessages constructs a PostgreSQL-backed message store.
func NewPostgresMessages(db *sql.DB) *PostgresMessageStore {
	return &PostgresMessageStore{db: db}
}

func (s *PostgresMessageStore) Insert(ctx context.Context, m *models.Message) error {
	m.LastUpdated = requestcontext.Now(ctx)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, form, status_code, content, raw_data, label_id, email, name, note, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(m.ID), m.Form, m.StatusCode, []byte(m.Content), []byte(m.RawData),
		nullLabel(m.LabelID), m.Email, m.Name, m.Note, m.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresMessageStore) Fetch(ctx context.Context, id domain.MessageID) (*models.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form, status_code, content, raw_data, label_id, email, name, note, last_updated
		FROM messages WHERE id = $1`, uuid.UUID(id))

	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch message: %w", err)
	}
	return m, nil
}

func (s *PostgresMessageStore) Update(ctx context.Context, m *models.Message) (*models.Message, error) {
	m.LastUpdated = requestcontext.Now(ctx)

	res, err := s.db.ExecContext(ctx, `
		UPDATE messages
		SET form = $2, status_code = $3, content = $4, raw_data = $5, label_id = $6,
		    email = $7, name = $8, note = $9, last_updated = $10
		WHERE id = $1`,
		uuid.UUID(m.ID), m.Form, m.StatusCode, []byte(m.Content), []byte(m.RawData),
		nullLabel(m.LabelID), m.Email, m.Name, m.Note, m.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update message rows affected: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrNotFound
	}

	copied := *m
	return &copied, nil
}

func (s *PostgresMessageStore) List(ctx context.Context) ([]*models.Message, []error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form, status_code, content, raw_data, label_id, email, name, note, last_updated
		FROM messages ORDER BY last_updated DESC`)
	if err != nil {
		return nil, []error{fmt.Errorf("list messages: %w", err)}
	}
	defer rows.Close()

	var (
		messages []*models.Message
		errs     []error
	)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			// A bad row does not abort the listing.
			errs = append(errs, fmt.Errorf("scan message: %w", err))
			continue
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		errs = append(errs, fmt.Errorf("iterate messages: %w", err))
	}
	return messages, errs
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		m       models.Message
		id      uuid.UUID
		labelID uuid.NullUUID
		content []byte
		rawData []byte
	)
	err := row.Scan(&id, &m.Form, &m.StatusCode, &content, &rawData,
		&labelID, &m.Email, &m.Name, &m.Note, &m.LastUpdated)
	if err != nil {
		return nil, err
	}
	m.ID = domain.MessageID(id)
	m.Content = content
	m.RawData = rawData
	if labelID.Valid {
		m.LabelID = domain.LabelID(labelID.UUID)
	}
	return &m, nil
}

func nullLabel(id domain.LabelID) uuid.NullUUID {
	if id.IsNil() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(id), Valid: true}
}

// PostgresHistoryStore persists history items in PostgreSQL.
type PostgresHistoryStore struct {
	db *sql.DB
}

// NewPostgresHistory constructs a PostgreSQL-backed history store.
func NewPostgresHistory(db *sql.DB) *PostgresHistoryStore {
	return &PostgresHistoryStore{db: db}
}

func (s *PostgresHistoryStore) Insert(ctx context.Context, item *models.HistoryItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history_items (id, message_id, account, change_type, is_unread, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(item.ID), uuid.UUID(item.MessageID), item.Account,
		item.ChangeType, item.IsUnread, []byte(item.Payload), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history item: %w", err)
	}
	return nil
}

func (s *PostgresHistoryStore) ListByMessage(ctx context.Context, id domain.MessageID) ([]*models.HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message_id, account, change_type, is_unread, payload, created_at
		FROM history_items WHERE message_id = $1 ORDER BY created_at`, uuid.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("list history items: %w", err)
	}
	defer rows.Close()

	var items []*models.HistoryItem
	for rows.Next() {
		item, err := scanHistoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history items: %w", err)
	}
	return items, nil
}

func (s *PostgresHistoryStore) Fetch(ctx context.Context, id domain.HistoryItemID) (*models.HistoryItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, message_id, account, change_type, is_unread, payload, created_at
		FROM history_items WHERE id = $1`, uuid.UUID(id))

	item, err := scanHistoryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch history item: %w", err)
	}
	return item, nil
}

func (s *PostgresHistoryStore) SetUnread(ctx context.Context, item *models.HistoryItem) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE history_items SET is_unread = $2 WHERE id = $1`,
		uuid.UUID(item.ID), item.IsUnread,
	)
	if err != nil {
		return fmt.Errorf("set history item unread: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set history item unread rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanHistoryItem(row rowScanner) (*models.HistoryItem, error) {
	var (
		item      models.HistoryItem
		id        uuid.UUID
		messageID uuid.UUID
		payload   []byte
	)
	err := row.Scan(&id, &messageID, &item.Account, &item.ChangeType,
		&item.IsUnread, &payload, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	item.ID = domain.HistoryItemID(id)
	item.MessageID = domain.MessageID(messageID)
	item.Payload = payload
	return &item, nil
}
