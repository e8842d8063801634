package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryPath is the DSN of the session library. Nothing outlives the process.
const MemoryPath = ":memory:"

// ErrNotFound is returned when a document lookup has no match.
var ErrNotFound = errors.New("document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	seq                   INTEGER PRIMARY KEY AUTOINCREMENT,
	id                    TEXT NOT NULL UNIQUE,
	name                  TEXT NOT NULL,
	summary               TEXT NOT NULL DEFAULT '',
	keywords              TEXT NOT NULL DEFAULT '[]',
	method_summary        TEXT NOT NULL DEFAULT '',
	code_address          TEXT NOT NULL DEFAULT '',
	download_url          TEXT NOT NULL DEFAULT '',
	literature_time       TEXT NOT NULL DEFAULT '',
	created_at            INTEGER NOT NULL,
	reading_status        TEXT NOT NULL DEFAULT 'unread',
	conference_journal    TEXT NOT NULL DEFAULT '',
	datasets              TEXT NOT NULL DEFAULT '[]',
	network_architectures TEXT NOT NULL DEFAULT '[]',
	innovation            TEXT NOT NULL DEFAULT '',
	notes                 TEXT NOT NULL DEFAULT '',
	author                TEXT NOT NULL DEFAULT '',
	citation              INTEGER NOT NULL DEFAULT 0,
	category              TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
`

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	Path string
}

// Open creates an empty in-memory library.
func Open() (*DB, error) {
	conn, err := sql.Open("sqlite", MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every new connection to :memory: is a fresh database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{conn: conn, Path: MemoryPath}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}
