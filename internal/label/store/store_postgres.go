package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"formdesk/internal/label"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresStore persists labels in PostgreSQL. The unique index on name backs
// the concurrent get-or-create contract.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed label store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FetchByName(ctx context.Context, name string) (*label.Label, error) {
	var (
		id uuid.UUID
		l  label.Label
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM labels WHERE name = $1`, name,
	).Scan(&id, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch label by name: %w", err)
	}
	l.ID = domain.LabelID(id)
	return &l, nil
}

func (s *PostgresStore) Insert(ctx context.Context, l *label.Label) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO labels (id, name) VALUES ($1, $2)`,
		uuid.UUID(l.ID), l.Name,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert label: %w", err)
	}
	return nil
}

// DefaultLabel derives the label from the submission's page context. The rule
// mirrors the reference setup: page title when present, a fixed bucket
// otherwise.
func (s *PostgresStore) DefaultLabel(_ context.Context, meta map[string]string) (string, error) {
	if title := meta["page_title"]; title != "" {
		return title, nil
	}
	return DefaultLabelFallback, nil
}
