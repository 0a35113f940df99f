package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/tablero/internal/board"
	"github.com/dori/tablero/internal/config"
	"github.com/dori/tablero/internal/db"
	"github.com/dori/tablero/internal/logging"
	"github.com/dori/tablero/internal/storage"
	"github.com/gofrs/flock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the application state and dependencies
type App struct {
	Config  *config.Config
	Board   *board.Board
	Logger  *zap.Logger
	DataDir string

	db       *db.DB
	redis    *redis.Client
	lockFile *flock.Flock
}

// New creates a new application instance. It takes the data directory lock,
// opens the configured backend and loads the board.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		DataDir: cfg.Storage.DataDir,
	}

	// Acquire lock so only one process writes the board
	if err := app.acquireLock(); err != nil {
		logger.Warn("data directory is locked", zap.String("data_dir", app.DataDir), zap.Error(err))
		app.Close()
		return nil, err
	}

	backend, err := app.openBackend(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	gateway := storage.NewGateway(backend,
		storage.WithKey(cfg.Storage.Key),
		storage.WithLogger(logger.Named("storage")))
	app.Board = board.Open(ctx, gateway, board.WithLogger(logger.Named("board")))

	logger.Info("tablero started",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("data_dir", cfg.Storage.DataDir))
	return app, nil
}

func (a *App) openBackend(ctx context.Context) (storage.Backend, error) {
	switch a.Config.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.Open(ctx, a.Config.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = database
		return storage.NewSQLiteBackend(database), nil

	case config.BackendRedis:
		opts, err := redis.ParseURL(a.Config.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = client
		return storage.NewRedisBackend(client, a.Config.Redis.Prefix), nil

	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", a.Config.Storage.Backend)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "tablero.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of tablero is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Close()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	a.releaseLock()

	if a.Logger != nil {
		if err := logging.Sync(a.Logger); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush log: %w", err))
		}
	}

	return errors.Join(errs...)
}
