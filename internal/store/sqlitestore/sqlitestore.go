// Package sqlitestore keeps the todo collection in a SQLite database.
//
// Each entry is stored as its JSON document, one row per position, so the
// collection round-trips exactly like the JSON file backend, malformed
// entries included. Save replaces every row inside one transaction.
package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store is a SQLite-backed collection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: create dir: %w", err)
		}
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitestore: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS todo_entries (
			position INTEGER PRIMARY KEY,
			body     TEXT    NOT NULL
		);
	`)
	return err
}

// Load returns every entry ordered by position.
func (s *Store) Load() ([]model.Todo, error) {
	rows, err := s.db.Query(`SELECT body FROM todo_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: query: %w", err)
	}
	defer rows.Close()

	items := []model.Todo{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("sqlitestore: scan: %w", err)
		}
		var it model.Todo
		if err := json.Unmarshal([]byte(body), &it); err != nil {
			return nil, fmt.Errorf("sqlitestore: decode row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: rows: %w", err)
	}
	return items, nil
}

// Save replaces the stored collection with items.
func (s *Store) Save(items []model.Todo) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlitestore: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM todo_entries`); err != nil {
		return fmt.Errorf("sqlitestore: clear: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO todo_entries (position, body) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlitestore: prepare: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		body, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("sqlitestore: encode entry %d: %w", i, err)
		}
		if _, err := stmt.Exec(i, string(body)); err != nil {
			return fmt.Errorf("sqlitestore: insert entry %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: commit: %w", err)
	}
	return nil
}
