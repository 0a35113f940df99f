// Package config provides configuration loading for tablero.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dori/tablero/internal/db"
	"github.com/dori/tablero/internal/logging"
	"github.com/dori/tablero/internal/storage"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
	envPrefix         = "TABLERO_"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the complete tablero configuration.
type Config struct {
	Storage StorageConfig  `koanf:"storage"`
	Redis   RedisConfig    `koanf:"redis"`
	Log     logging.Config `koanf:"log"`
	UI      UIConfig       `koanf:"ui"`
}

// StorageConfig selects where the board state is kept.
type StorageConfig struct {
	Backend string `koanf:"backend"`
	DataDir string `koanf:"data_dir"`
	Path    string `koanf:"path"` // SQLite file
	Key     string `koanf:"key"`
}

// RedisConfig holds the Redis backend connection.
type RedisConfig struct {
	URL    string `koanf:"url"`
	Prefix string `koanf:"prefix"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	Theme string `koanf:"theme"`
}

// DefaultPath returns ~/.config/tablero/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tablero", "config.yaml")
	}
	return filepath.Join(home, ".config", "tablero", "config.yaml")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadWithFile loads configuration from a YAML file, then overrides it with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TABLERO_STORAGE_BACKEND, TABLERO_LOG_LEVEL, ...)
//  2. YAML config file (~/.config/tablero/config.yaml when configPath is empty)
//  3. Hardcoded defaults
//
// A missing file is not an error. Environment variables map to keys by
// dropping the prefix and splitting on the first underscore:
//
//	TABLERO_STORAGE_DATA_DIR -> storage.data_dir
//	TABLERO_REDIS_URL        -> redis.url
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = DefaultPath()
	}

	content, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps TABLERO_SECTION_FIELD_NAME to section.field_name
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// readConfigFile returns nil content when the file does not exist
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = db.DefaultDataDir()
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(cfg.Storage.DataDir, "tablero.db")
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = storage.DefaultKey
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "tablero:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Storage.DataDir, "tablero.log")
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = "nord"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, redis or memory)", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendRedis && c.Redis.URL == "" {
		return errors.New("redis.url required when storage.backend is redis")
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage.key must not be blank")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
