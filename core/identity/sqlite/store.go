// Package sqlite provides a SQLite-backed identity record store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ottokiosk/otto-core/core/identity"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS identity_records (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	registered_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS identity_records_name ON identity_records (name);
`

// Store persists enrollment records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) an identity store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateRecord inserts one enrollment record.
func (s *Store) CreateRecord(ctx context.Context, record identity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	name := strings.TrimSpace(record.Name)
	if id == "" {
		return fmt.Errorf("record id is required")
	}
	if name == "" {
		return fmt.Errorf("record name is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO identity_records (id, name, registered_at_ms) VALUES (?, ?, ?)`,
		id, name, toMillis(record.RegisteredAt))
	if err != nil {
		return fmt.Errorf("insert identity record: %w", err)
	}
	return nil
}

// Record loads one record by id.
func (s *Store) Record(ctx context.Context, id string) (identity.Record, error) {
	if err := ctx.Err(); err != nil {
		return identity.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return identity.Record{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, registered_at_ms FROM identity_records WHERE id = ?`, id)

	var record identity.Record
	var registeredAt int64
	if err := row.Scan(&record.ID, &record.Name, &registeredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Record{}, identity.ErrRecordNotFound
		}
		return identity.Record{}, fmt.Errorf("load identity record: %w", err)
	}
	record.RegisteredAt = fromMillis(registeredAt)
	return record, nil
}

// Records lists every enrollment, oldest first.
func (s *Store) Records(ctx context.Context) ([]identity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, registered_at_ms FROM identity_records ORDER BY registered_at_ms ASC`)
	if err != nil {
		return nil, fmt.Errorf("list identity records: %w", err)
	}
	defer rows.Close()

	var records []identity.Record
	for rows.Next() {
		var record identity.Record
		var registeredAt int64
		if err := rows.Scan(&record.ID, &record.Name, &registeredAt); err != nil {
			return nil, fmt.Errorf("scan identity record: %w", err)
		}
		record.RegisteredAt = fromMillis(registeredAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identity records: %w", err)
	}
	return records, nil
}
