// Package board is the task board controller. A Board owns the in-memory
// state and the session, and saves through the storage gateway after every
// mutation. The terminal UI and the command line both drive a Board.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Board holds the board state for one process
type Board struct {
	mu      sync.Mutex
	state   model.State
	session string

	gateway *storage.Gateway
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	saveErr error
}

// Option configures a Board
type Option func(*Board)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithClock sets the time source for new tasks
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator sets the task id source
func WithIDGenerator(newID func() string) Option {
	return func(b *Board) {
		if newID != nil {
			b.newID = newID
		}
	}
}

// Open loads the board state through gateway. Loading never fails: a
// missing or unreadable record gives an empty board.
func Open(ctx context.Context, gateway *storage.Gateway, opts ...Option) *Board {
	if gateway == nil {
		panic("board.Open: gateway is nil")
	}
	b := &Board{
		gateway: gateway,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}

	state, format := gateway.Load(ctx)
	b.state = state
	b.logger.Debug("board loaded",
		zap.Stringer("format", format),
		zap.Int("tasks", len(state.Tasks)),
		zap.Int("members", len(state.Members)),
		zap.Int("users", len(state.Users)))
	return b
}

// persist saves the state. Storage is a best-effort cache, so a failure is
// logged and remembered for LastSaveError but never fails the operation.
// Callers hold b.mu.
func (b *Board) persist(ctx context.Context) {
	err := b.gateway.Save(ctx, b.state)
	if err != nil {
		b.logger.Warn("failed to save board state", zap.Error(err))
	}
	b.saveErr = err
}

// LastSaveError returns the error from the most recent save, or nil
func (b *Board) LastSaveError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveErr
}

// Snapshot returns a deep copy of the state
func (b *Board) Snapshot() model.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Export returns the state as an indented JSON document
func (b *Board) Export() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := storage.EncodeIndent(b.state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}
	return data, nil
}

// Import replaces board contents with an import file. A bare task list
// replaces the tasks and drops the members, a status map replaces only the
// tasks, and a current-format file replaces everything. On an unknown shape
// the board is left untouched and ErrImport is returned.
func (b *Board) Import(ctx context.Context, raw []byte) (storage.Format, error) {
	doc, err := b.gateway.Decode(raw)
	if err != nil {
		b.logger.Info("import rejected", zap.Int("bytes", len(raw)), zap.Error(err))
		return storage.FormatUnknown, fmt.Errorf("%w: %v", ErrImport, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch doc.Format {
	case storage.FormatTaskList:
		b.state.Tasks = doc.State.Tasks
		b.state.Members = []model.Member{}
	case storage.FormatStatusMap:
		b.state.Tasks = doc.State.Tasks
	case storage.FormatCurrent:
		b.state = doc.State
	default:
		return storage.FormatUnknown, ErrImport
	}

	b.logger.Info("board imported",
		zap.Stringer("format", doc.Format),
		zap.Int("tasks", len(b.state.Tasks)))
	b.persist(ctx)
	return doc.Format, nil
}
