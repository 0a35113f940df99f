package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dori/tablero/internal/model"
	"go.uber.org/zap"
)

// Gateway loads and saves the board state under one fixed key.
//
// Load is fail safe: a missing, unreadable or corrupt record yields an empty
// board instead of an error, because a broken local store must never stop the
// application. Save reports failures, and callers treat the store as a
// best-effort cache.
type Gateway struct {
	backend Backend
	key     string
	decoder Decoder
	logger  *zap.Logger
}

// GatewayOption configures a Gateway
type GatewayOption func(*Gateway)

// WithKey overrides the storage key
func WithKey(key string) GatewayOption {
	return func(g *Gateway) {
		if key != "" {
			g.key = key
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock sets the time source used for migrated records
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		if now != nil {
			g.decoder.Now = now
		}
	}
}

// WithIDGenerator sets the id source used for migrated records
func WithIDGenerator(newID func() string) GatewayOption {
	return func(g *Gateway) {
		if newID != nil {
			g.decoder.NewID = newID
		}
	}
}

// NewGateway creates a gateway over backend
func NewGateway(backend Backend, opts ...GatewayOption) *Gateway {
	if backend == nil {
		panic("storage.NewGateway: backend is nil")
	}
	g := &Gateway{
		backend: backend,
		key:     DefaultKey,
		decoder: NewDecoder(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key returns the storage key
func (g *Gateway) Key() string {
	return g.key
}

// Load reads the board state. Legacy records are rewritten in the current
// format straight away; the old shape is gone after the first load.
func (g *Gateway) Load(ctx context.Context) (model.State, Format) {
	raw, err := g.backend.Get(ctx, g.key)
	if errors.Is(err, ErrNotFound) {
		return emptyState(), FormatUnknown
	}
	if err != nil {
		g.logger.Warn("board state unreadable, starting empty",
			zap.String("key", g.key), zap.Error(err))
		return emptyState(), FormatUnknown
	}

	doc, err := g.decoder.Decode(raw)
	if err != nil {
		g.logger.Warn("board state corrupt, starting empty",
			zap.String("key", g.key), zap.Int("bytes", len(raw)), zap.Error(err))
		return emptyState(), FormatUnknown
	}

	if doc.Format.Legacy() {
		g.logger.Info("migrating legacy board state",
			zap.String("key", g.key),
			zap.Stringer("format", doc.Format),
			zap.Int("tasks", len(doc.State.Tasks)))
		if err := g.Save(ctx, doc.State); err != nil {
			g.logger.Warn("failed to persist migrated board state", zap.Error(err))
		}
	}

	return doc.State, doc.Format
}

// Save writes the whole state under the key
func (g *Gateway) Save(ctx context.Context, state model.State) error {
	data, err := Encode(state)
	if err != nil {
		return &StorageError{Op: "encode", Key: g.key, Err: err}
	}
	if err := g.backend.Put(ctx, g.key, data); err != nil {
		return &StorageError{Op: "put", Key: g.key, Err: err}
	}
	return nil
}

// Decode parses an import file with the same rules as Load, without
// touching the backend.
func (g *Gateway) Decode(raw []byte) (Document, error) {
	return g.decoder.Decode(raw)
}
