package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SQLiteStore keeps values in the kv_store table created by db.InitializeDB.
type SQLiteStore struct {
	db        *sqlx.DB
	namespace string
}

// NewSQLiteStore creates a SQLite-based Store for the given namespace.
func NewSQLiteStore(db *sqlx.DB, namespace string) *SQLiteStore {
	return &SQLiteStore{db: db, namespace: namespace}
}

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "SQLiteStore.Load", trace.WithAttributes(
		attribute.String("store.namespace", s.namespace),
		attribute.String("store.key", key),
	))
	defer span.End()

	var value []byte
	query := `SELECT item_value FROM kv_store WHERE namespace = ? AND item_key = ?`
	err := s.db.GetContext(ctx, &value, query, s.namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read key from sqlite")
		return nil, fmt.Errorf("failed to load %q from sqlite: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "SQLiteStore.Save", trace.WithAttributes(
		attribute.String("store.namespace", s.namespace),
		attribute.String("store.key", key),
	))
	defer span.End()

	query := `INSERT INTO kv_store (namespace, item_key, item_value) VALUES (?, ?, ?)
	ON CONFLICT(namespace, item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, s.namespace, key, value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write key to sqlite")
		return fmt.Errorf("failed to save %q to sqlite: %w", key, err)
	}
	return nil
}
