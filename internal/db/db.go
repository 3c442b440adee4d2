package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// SchemaVersion is stored in PRAGMA user_version of every database Open creates.
const SchemaVersion = 1

// BusyTimeout is how long, in milliseconds, a connection waits for a lock held
// by another sweep writing to the same file.
const BusyTimeout = 5000

var ErrSchemaVersion = errors.New("unsupported schema version")

type DB struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path.
// The pragmas go through the DSN so every pooled connection gets them.
func Open(path string) (*DB, error) {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", BusyTimeout))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")

	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate() error {
	v, err := d.Version()
	if err != nil {
		return err
	}
	if v > SchemaVersion {
		return fmt.Errorf("%w: database is at %d, expected at most %d", ErrSchemaVersion, v, SchemaVersion)
	}
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if v < SchemaVersion {
		if _, err := d.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}
	return nil
}

// Version returns the schema version recorded in the database file.
func (d *DB) Version() (int, error) {
	var v int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}
