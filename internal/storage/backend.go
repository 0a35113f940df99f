// Package storage persists the board state as a single record in a
// key-value backend and migrates older record shapes on load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dori/tablero/internal/db"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the fixed key the board state lives under
const DefaultKey = "boardState"

// ErrNotFound is returned by a Backend when nothing is stored under the key
var ErrNotFound = errors.New("storage: not found")

// Backend reads and writes whole values by key. Each call is atomic at the
// granularity of one value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// StorageError wraps a failed backend read or write
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SQLiteBackend stores the record in the board_state table
type SQLiteBackend struct {
	db *db.DB
}

// NewSQLiteBackend wraps an open database
func NewSQLiteBackend(database *db.DB) *SQLiteBackend {
	return &SQLiteBackend{db: database}
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.db.Get(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, value []byte) error {
	return b.db.Put(ctx, key, value)
}

// RedisBackend stores the record as a plain Redis string
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a backend on client. prefix namespaces the key so
// several boards can share one Redis database.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if client == nil {
		panic("storage.NewRedisBackend: client is nil")
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	return b.client.Set(ctx, b.prefix+key, value, 0).Err()
}

// MemoryBackend keeps values in process memory
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	b.data[key] = v
	return nil
}
