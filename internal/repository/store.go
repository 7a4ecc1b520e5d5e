package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

// ErrKeyNotFound is returned by Store.Load when nothing has been saved
// under the key yet.
var ErrKeyNotFound = errors.New("key not found")

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks . Store

// Store is a durable key-value store scoped to one application namespace.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
