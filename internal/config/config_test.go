package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "tictactoe", cfg.StorageNamespace)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TelemetryEnabled())
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"HTTP_ADDR":           ":9090",
		"CORS_ALLOW_ORIGINS":  "http://localhost:3000, https://ttt.example.com",
		"STORE_BACKEND":       "Redis",
		"REDIS_CONNSTRING":    "redis:6379",
		"STORAGE_NAMESPACE":   "game-1",
		"OTEL_COLLECTOR_ADDR": "otel-collector:4317",
		"OTEL_STDOUT_TRACES":  "true",
		"LOG_LEVEL":           "debug",
		"SHUTDOWN_TIMEOUT":    "250ms",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:3000", "https://ttt.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "game-1", cfg.StorageNamespace)
	assert.True(t, cfg.TelemetryEnabled())
	assert.True(t, cfg.OtelStdoutTraces)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
}

func TestFromLookupRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "localStorage"}},
		{name: "bad origin", env: map[string]string{"CORS_ALLOW_ORIGINS": "not a url"}},
		{name: "bad bool", env: map[string]string{"OTEL_STDOUT_TRACES": "maybe"}},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
		{name: "zero duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
