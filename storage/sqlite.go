package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/arthur-debert/dispatchgrid/internal/validation"
	"github.com/arthur-debert/dispatchgrid/types"
)

const layoutTable = "grid_layouts"

const schema = `CREATE TABLE IF NOT EXISTS grid_layouts (
	storage_key TEXT PRIMARY KEY,
	state       TEXT NOT NULL,
	updated_at  TEXT NOT NULL
)`

// SQLiteStore keeps one row per storage key in an embedded database
type SQLiteStore struct {
	db       *sql.DB
	sq       squirrel.StatementBuilderType
	timeFunc func() time.Time
	locks    *LockManager
	closed   bool
}

// NewSQLiteStore opens or creates the database at dsn.
// ":memory:" gives a private in-memory database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set busy timeout first to help with concurrent access during initialization
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			// Another process may hold the database while switching to WAL
			if pragma == "PRAGMA journal_mode = WAL" && strings.Contains(err.Error(), "database is locked") {
				continue
			}
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	// Single connection: SQLite has one writer, and :memory: is per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create %s: %w", layoutTable, err)
	}

	return &SQLiteStore{
		db:       db,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		timeFunc: time.Now,
		locks:    NewLockManager(),
	}, nil
}

// Load implements Store.Load
func (s *SQLiteStore) Load(ctx context.Context, key string) (*types.LayoutState, error) {
	if err := validation.ValidateStorageKey(key); err != nil {
		return nil, err
	}
	return Query(s.locks, ReadOperation, func() (*types.LayoutState, error) {
		if s.closed {
			return nil, ErrClosed
		}

		query, args, err := s.sq.Select("state").
			From(layoutTable).
			Where(squirrel.Eq{"storage_key": key}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build query: %w", err)
		}

		var raw string
		err = s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load layout %q: %w", key, err)
		}

		var state types.LayoutState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, fmt.Errorf("failed to decode layout %q: %w", key, err)
		}
		return &state, nil
	})
}

// Save implements Store.Save
func (s *SQLiteStore) Save(ctx context.Context, key string, state types.LayoutState) error {
	if err := validation.ValidateStorageKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode layout %q: %w", key, err)
	}

	return s.locks.Execute(WriteOperation, func() error {
		if s.closed {
			return ErrClosed
		}

		query, args, err := s.sq.Insert(layoutTable).
			Columns("storage_key", "state", "updated_at").
			Values(key, string(data), s.timeFunc().UTC().Format(time.RFC3339Nano)).
			Suffix("ON CONFLICT(storage_key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build upsert: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save layout %q: %w", key, err)
		}
		return nil
	})
}

// Keys returns every stored key in byte order
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	return Query(s.locks, ReadOperation, func() ([]string, error) {
		if s.closed {
			return nil, ErrClosed
		}
		query, args, err := s.sq.Select("storage_key").From(layoutTable).OrderBy("storage_key").ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build query: %w", err)
		}
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list layouts: %w", err)
		}
		defer func() { _ = rows.Close() }()

		keys := []string{}
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
		return keys, rows.Err()
	})
}

// Delete removes key. Deleting an unknown key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.locks.Execute(WriteOperation, func() error {
		if s.closed {
			return ErrClosed
		}
		query, args, err := s.sq.Delete(layoutTable).Where(squirrel.Eq{"storage_key": key}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete: %w", err)
		}
		_, err = s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Close implements Store.Close
func (s *SQLiteStore) Close() error {
	return s.locks.Execute(WriteOperation, func() error {
		if s.closed {
			return nil
		}
		s.closed = true
		return s.db.Close()
	})
}
