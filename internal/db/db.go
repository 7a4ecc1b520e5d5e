package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

// OpenSQLite opens the SQLite database at dbPath and makes sure the schema
// exists. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database connection: %w", err)
	}
	// Every connection to ":memory:" gets its own database.
	pool.SetMaxOpenConns(1)

	if err := InitializeDB(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	slog.InfoContext(ctx, "Connected to sqlite database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB creates the key-value table if it doesn't exist.
func InitializeDB(ctx context.Context, db *sqlx.DB) error {
	kvSchema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		namespace TEXT NOT NULL,
		item_key TEXT NOT NULL,
		item_value BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, item_key)
	);`

	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}
