package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Decimals and timestamps are stored as TEXT to keep them exact
const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	ticker           TEXT NOT NULL,
	quantity         TEXT NOT NULL,
	buy_price        TEXT NOT NULL,
	current_price    TEXT,
	price_updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_stocks_ticker ON stocks (ticker);
`

// DB wraps the database connection
type DB struct {
	*sql.DB
	path string
}

// NewDB opens (and creates if needed) the database file at dbPath
func NewDB(dbPath string) (*DB, error) {
	dsn := MemoryPath
	if dbPath != MemoryPath {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, path: dbPath}, nil
}

// Migrate creates the stocks table if it does not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
