package main

import (
	"context"
	"ctchen222/Tic-Tac-Toe-History/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-History/internal/config"
	"ctchen222/Tic-Tac-Toe-History/internal/db"
	"ctchen222/Tic-Tac-Toe-History/internal/hub"
	"ctchen222/Tic-Tac-Toe-History/internal/logger"
	"ctchen222/Tic-Tac-Toe-History/internal/repository"
	"ctchen222/Tic-Tac-Toe-History/internal/server"
	"ctchen222/Tic-Tac-Toe-History/internal/session"
	"ctchen222/Tic-Tac-Toe-History/internal/telemetry"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{
		CollectorAddr: cfg.OtelCollector,
		StdoutTraces:  cfg.OtelStdoutTraces,
	})
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(os.Stdout, cfg.LogLevel)
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	gameRepo := repository.NewGameRepository(store)

	// Create hub and session
	h := hub.NewHub()
	sess, err := session.New(ctx, gameRepo, session.WithNotifier(h.Broadcast))
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}
	h.Attach(sess)

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go h.Run(hubCtx)

	// Create the Gin-based server
	srv := server.NewServer(h, controller.NewGameController(sess), cfg.AllowedOrigins)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.InfoContext(ctx, "http server started",
			"http.addr", cfg.HTTPAddr,
			"store.backend", cfg.StoreBackend,
			"telemetry.enabled", cfg.TelemetryEnabled(),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.InfoContext(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "server forced to shutdown", "error", err)
	}
	stopHub()

	slog.InfoContext(ctx, "server exiting")
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), func() {}, nil

	case config.BackendRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				slog.Warn("error closing redis client", "error", err)
			}
		}
		return repository.NewRedisStore(rdb, cfg.StorageNamespace), closeFn, nil

	case config.BackendSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := sqlDB.Close(); err != nil {
				slog.Warn("error closing sqlite database", "error", err)
			}
		}
		return repository.NewSQLiteStore(sqlDB, cfg.StorageNamespace), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
