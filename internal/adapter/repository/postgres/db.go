package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// schema is applied on startup; every statement is idempotent
const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT        NOT NULL,
	ticker           TEXT        NOT NULL,
	quantity         NUMERIC     NOT NULL CHECK (quantity > 0),
	buy_price        NUMERIC     NOT NULL CHECK (buy_price >= 0),
	current_price    NUMERIC     CHECK (current_price >= 0),
	price_updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_stocks_ticker ON stocks (ticker);
`

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=stocktracker sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the stocks table if it does not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
