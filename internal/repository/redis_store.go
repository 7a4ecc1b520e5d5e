package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps every key of a namespace as a field of one Redis hash.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisStore creates a Redis-based Store for the given namespace.
func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	return &RedisStore{rdb: rdb, namespace: namespace}
}

func (r *RedisStore) hashKey() string {
	return fmt.Sprintf("store:%s", r.namespace)
}

// Load reads one field of the namespace hash.
func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "RedisStore.Load", trace.WithAttributes(
		attribute.String("store.namespace", r.namespace),
		attribute.String("store.key", key),
	))
	defer span.End()

	value, err := r.rdb.HGet(ctx, r.hashKey(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read key from redis")
		return nil, fmt.Errorf("failed to load %q from redis: %w", key, err)
	}
	return value, nil
}

// Save overwrites one field of the namespace hash.
func (r *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "RedisStore.Save", trace.WithAttributes(
		attribute.String("store.namespace", r.namespace),
		attribute.String("store.key", key),
	))
	defer span.End()

	if err := r.rdb.HSet(ctx, r.hashKey(), key, value).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write key to redis")
		return fmt.Errorf("failed to save %q to redis: %w", key, err)
	}
	return nil
}
