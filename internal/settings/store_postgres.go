package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"formdesk/pkg/platform/sentinel"
)

// PostgresStore reads options from the settings table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed option store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetOption(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name = $1`, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get option: %w", err)
	}
	return value, nil
}
