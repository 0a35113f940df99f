package board

import (
	"context"
	"strings"

	"github.com/dori/tablero/internal/model"
	"go.uber.org/zap"
)

// AddMember adds a member with a color derived from the name. It returns
// false when the trimmed name is empty or already taken.
func (b *Board) AddMember(ctx context.Context, name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.addMemberLocked(name) {
		return false
	}
	b.persist(ctx)
	return true
}

// addMemberLocked appends the member without saving
func (b *Board) addMemberLocked(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || b.state.FindMember(name) >= 0 {
		return false
	}
	b.state.Members = append(b.state.Members, model.NewMember(name))
	b.logger.Debug("member added", zap.String("member", name))
	return true
}

// Members returns all members in insertion order
func (b *Board) Members() []model.Member {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Member, len(b.state.Members))
	copy(out, b.state.Members)
	return out
}

// Member looks a member up by exact, case-sensitive name
func (b *Board) Member(name string) (model.Member, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.state.FindMember(name)
	if i < 0 {
		return model.Member{}, false
	}
	return b.state.Members[i], true
}
