// Package db persists benchmark runs in SQLite. Frequency tables are never
// stored, only timings, counts and discrepancies.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// DefaultDBName is the history file used when no --db path is given.
const DefaultDBName = "wordbench.db"

// DB is the run history store.
type DB struct {
	*sql.DB
	path string
}

// Open returns the history store at path, creating the file and its tables
// on first use. An empty path means DefaultDBName in the working directory;
// ":memory:" gives a throwaway store.
func Open(path string) (*DB, error) {
	if path == "" {
		path = DefaultDBName
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	// sqlite serialises writers, and each extra connection to ":memory:"
	// would see its own empty database.
	conn.SetMaxOpenConns(1)

	store := &DB{DB: conn, path: path}
	if err := store.prepare(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("preparing history %s: %w", path, err)
	}
	return store, nil
}

// prepare turns on cascading deletes and creates the run tables when the
// file is new.
func (db *DB) prepare() error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return db.InitSchema()
	case err != nil:
		return fmt.Errorf("checking for runs table: %w", err)
	}
	return nil
}

// Path is the file the store was opened on.
func (db *DB) Path() string {
	return db.path
}

// InitSchema creates the runs, records and discrepancies tables. It is safe
// to call on an existing store.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}
