// Package store keeps the event nodes of the current build in SQLite.
//
// The store is the data graph that page creation queries. Every build replaces
// the full node set; nothing from an earlier build feeds later derivations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/eventsite/internal/event"
	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// Store is a SQLite-backed node store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the node store at path. Use Memory for an
// in-memory database.
func Open(path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "create store directory").
				WithContext("path", path).
				Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "open sqlite database").
			Fatal().
			WithContext("path", path).
			Build()
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryStore, "initialize schema").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	// start_date and end_date hold Unix seconds.
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		start_date INTEGER NOT NULL,
		end_date INTEGER NOT NULL,
		url TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_date, name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceEvents swaps the stored node set for events in one transaction.
// Dates are kept with second precision.
func (s *Store) ReplaceEvents(ctx context.Context, events []event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return storeErr(err, "clear events")
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO events (id, name, location, start_date, end_date, url, slug, description, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return storeErr(err, "prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		_, err := stmt.ExecContext(ctx,
			ev.ID, ev.Name, ev.Location,
			ev.StartDate.Unix(), ev.EndDate.Unix(),
			ev.URL, ev.Slug, ev.Description, ev.Source,
		)
		if err != nil {
			return errors.WrapError(err, errors.CategoryStore, "insert event").
				Fatal().
				WithContext("event_id", ev.ID).
				WithContext("name", ev.Name).
				Build()
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err, "commit transaction")
	}
	return nil
}

// Events returns every stored event ordered by start date, then name.
func (s *Store) Events(ctx context.Context) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, location, start_date, end_date, url, slug, description, source FROM events ORDER BY start_date ASC, name ASC")
	if err != nil {
		return nil, storeErr(err, "query events")
	}
	defer func() { _ = rows.Close() }()

	var out []event.Event
	for rows.Next() {
		var ev event.Event
		var start, end int64
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Location, &start, &end, &ev.URL, &ev.Slug, &ev.Description, &ev.Source); err != nil {
			return nil, storeErr(err, "scan event")
		}
		ev.StartDate = time.Unix(start, 0).UTC()
		ev.EndDate = time.Unix(end, 0).UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "iterate rows")
	}
	return out, nil
}

// Count returns the number of stored events.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, storeErr(err, "count events")
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func storeErr(err error, msg string) error {
	return errors.WrapError(err, errors.CategoryStore, msg).Fatal().Build()
}
