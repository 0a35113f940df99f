package board

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dori/tablero/internal/model"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest password Register accepts
const MinPasswordLength = 4

// Register creates a user and adds the name as a member. The password is
// stored obscured, which is not a security control (see model.Obscure).
func (b *Board) Register(ctx context.Context, name, password string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(ErrInvalidName, "name", "name cannot be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state.FindUser(name) >= 0 {
		return ErrDuplicateUser
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid(ErrWeakPassword, "password", "password must be at least 4 characters")
	}

	b.state.Users = append(b.state.Users, model.User{Name: name, Password: model.Obscure(password)})
	b.addMemberLocked(name)
	b.logger.Info("user registered", zap.String("user", name))
	b.persist(ctx)
	return nil
}

// FindUser returns the user registered under the exact name
func (b *Board) FindUser(name string) (model.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findUserLocked(name)
}

func (b *Board) findUserLocked(name string) (model.User, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, false
	}
	i := b.state.FindUser(name)
	if i < 0 {
		return model.User{}, false
	}
	return b.state.Users[i], true
}

// Verify reports whether password matches the stored one for name
func (b *Board) Verify(name, password string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.verifyLocked(name, password)
}

func (b *Board) verifyLocked(name, password string) bool {
	u, ok := b.findUserLocked(name)
	return ok && model.Reveal(u.Password) == password
}

// Login starts a session for name. An unknown user and a wrong password
// both give ErrAuth.
func (b *Board) Login(ctx context.Context, name, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if password == "" || !b.verifyLocked(name, password) {
		b.logger.Info("login failed")
		return ErrAuth
	}
	b.session = strings.TrimSpace(name)
	b.logger.Info("user logged in", zap.String("user", b.session))
	return nil
}

// Logout ends the session. Tasks are kept and the state is saved.
func (b *Board) Logout(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session != "" {
		b.logger.Info("user logged out", zap.String("user", b.session))
	}
	b.session = ""
	b.persist(ctx)
}

// CurrentUser returns the logged in user, or "" when nobody is
func (b *Board) CurrentUser() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}
