package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tablero.log")

	logger, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Debug("task created", zap.String("task_id", "t1"))
	require.NoError(t, Sync(logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"task created"`)
	assert.Contains(t, string(data), `"task_id":"t1"`)
	assert.Contains(t, string(data), `"service":"tablero"`)
	assert.Contains(t, string(data), `"ts":`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tablero.log")

	logger, err := New(Config{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")
	require.NoError(t, Sync(logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{Format: "console", Level: "info"}.Validate())
	assert.Error(t, Config{Format: "xml"}.Validate())
	assert.Error(t, Config{Level: "loudest"}.Validate())

	_, err := New(Config{Format: "xml", File: "stderr"})
	assert.Error(t, err)
}

func TestNewObserved(t *testing.T) {
	logger, logs := NewObserved(zapcore.InfoLevel)
	logger.Debug("dropped")
	logger.Info("kept")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}
