// Package config loads process settings from the environment. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"ctchen222/Tic-Tac-Toe-History/internal/validator"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	HTTPAddr         string        `json:"HTTP_ADDR" validate:"required"`
	AllowedOrigins   []string      `json:"CORS_ALLOW_ORIGINS" validate:"dive,url"`
	StoreBackend     string        `json:"STORE_BACKEND" validate:"required,oneof=memory redis sqlite"`
	RedisAddr        string        `json:"REDIS_CONNSTRING" validate:"required_if=StoreBackend redis"`
	SQLitePath       string        `json:"SQLITE_PATH" validate:"required_if=StoreBackend sqlite"`
	StorageNamespace string        `json:"STORAGE_NAMESPACE" validate:"required,max=64"`
	OtelCollector    string        `json:"OTEL_COLLECTOR_ADDR"`
	OtelStdoutTraces bool          `json:"OTEL_STDOUT_TRACES"`
	LogLevel         slog.Level    `json:"LOG_LEVEL"`
	ShutdownTimeout  time.Duration `json:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup for every key, applying defaults
// for unset keys.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		HTTPAddr:         get("HTTP_ADDR", ":8080"),
		StoreBackend:     strings.ToLower(get("STORE_BACKEND", BackendSQLite)),
		RedisAddr:        get("REDIS_CONNSTRING", "localhost:6379"),
		SQLitePath:       get("SQLITE_PATH", "./tictactoe.db"),
		StorageNamespace: get("STORAGE_NAMESPACE", "tictactoe"),
		OtelCollector:    get("OTEL_COLLECTOR_ADDR", ""),
	}
	for _, origin := range strings.Split(get("CORS_ALLOW_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	var err error
	if cfg.OtelStdoutTraces, err = strconv.ParseBool(get("OTEL_STDOUT_TRACES", "false")); err != nil {
		return nil, fmt.Errorf("invalid OTEL_STDOUT_TRACES: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(get("SHUTDOWN_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// TelemetryEnabled reports whether an OTLP collector is configured.
func (c *Config) TelemetryEnabled() bool {
	return c.OtelCollector != ""
}
