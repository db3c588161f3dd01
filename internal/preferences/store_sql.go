package preferences

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"puente-backend/internal/shared/storage/db"
)

// SQLStore keeps preferences in the migrated "preferences" table of a
// PostgreSQL or SQLite database.
type SQLStore struct {
	DB      *sql.DB
	Dialect string
}

// NewPGStore returns a store backed by PostgreSQL.
func NewPGStore(database *sql.DB) *SQLStore {
	return &SQLStore{DB: database, Dialect: db.DialectPostgres}
}

// NewSQLiteStore returns a store backed by SQLite.
func NewSQLiteStore(database *sql.DB) *SQLStore {
	return &SQLStore{DB: database, Dialect: db.DialectSQLite}
}

const (
	pgSelect = `
SELECT value
FROM preferences
WHERE client_id = $1 AND key = $2
LIMIT 1`
	pgUpsert = `
INSERT INTO preferences (client_id, key, value, updated_at)
VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
ON CONFLICT (client_id, key) DO UPDATE SET
  value = EXCLUDED.value,
  updated_at = CURRENT_TIMESTAMP`

	sqliteSelect = `
SELECT value
FROM preferences
WHERE client_id = ? AND key = ?
LIMIT 1`
	sqliteUpsert = `
INSERT INTO preferences (client_id, key, value, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (client_id, key) DO UPDATE SET
  value = excluded.value,
  updated_at = CURRENT_TIMESTAMP`
)

func (s *SQLStore) queries() (string, string) {
	if s.Dialect == db.DialectSQLite {
		return sqliteSelect, sqliteUpsert
	}
	return pgSelect, pgUpsert
}

func (s *SQLStore) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(key) == "" {
		return "", false, ErrInvalidKey
	}
	query, _ := s.queries()
	var value string
	err := s.DB.QueryRowContext(ctx, query, clientID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, clientID, key, value string) error {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	_, query := s.queries()
	_, err := s.DB.ExecContext(ctx, query, clientID, key, value)
	return err
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
