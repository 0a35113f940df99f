package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/dori/tablero/internal/config"
	"github.com/dori/tablero/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	t.Setenv("TABLERO_STORAGE_BACKEND", backend)
	t.Setenv("TABLERO_STORAGE_DATA_DIR", filepath.Join(t.TempDir(), "data"))
	cfg, err := config.LoadWithFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestNewSQLitePersistsAcrossRuns(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	_, err = a.Board.CreateTask(ctx, "survive restart", "")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = os.Stat(cfg.Storage.Path)
	require.NoError(t, err)

	b, err := New(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()

	tasks := b.Board.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "survive restart", tasks[0].Text)
	assert.NoError(t, b.Board.LastSaveError())
}

func TestNewRejectsSecondInstance(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendMemory)

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = New(ctx, cfg)
	assert.ErrorContains(t, err, "already running")

	// The rejected instance still flushed its log before giving up
	logged, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "data directory is locked")

	// and did not take the lock away from the running one
	_, err = New(ctx, cfg)
	assert.ErrorContains(t, err, "already running")
}

func TestNewRedisBackend(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig(t, config.BackendRedis)
	cfg.Redis.URL = "redis://" + mr.Addr() + "/0"

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	_, err = a.Board.CreateTask(ctx, "cached remotely", "")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	assert.True(t, mr.Exists(cfg.Redis.Prefix+storage.DefaultKey))
}

func TestNewRedisUnreachable(t *testing.T) {
	cfg := testConfig(t, config.BackendRedis)
	cfg.Redis.URL = "redis://127.0.0.1:1/0"

	_, err := New(context.Background(), cfg)
	require.ErrorContains(t, err, "failed to connect to redis")

	// The lock was released on failure
	cfg.Storage.Backend = config.BackendMemory
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	a.Close()
}
