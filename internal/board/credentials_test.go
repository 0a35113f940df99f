package board

import (
	"context"
	"testing"

	"github.com/dori/tablero/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	require.NoError(t, b.Register(ctx, "ana", "1234"))
	assert.Empty(t, b.CurrentUser())

	require.NoError(t, b.Login(ctx, "ana", "1234"))
	assert.Equal(t, "ana", b.CurrentUser())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	require.NoError(t, b.Register(ctx, "ana", "1234"))

	wrongPassword := b.Login(ctx, "ana", "wrong")
	unknownUser := b.Login(ctx, "nobody", "1234")

	require.ErrorIs(t, wrongPassword, ErrAuth)
	require.ErrorIs(t, unknownUser, ErrAuth)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Empty(t, b.CurrentUser())

	assert.ErrorIs(t, b.Login(ctx, "ana", ""), ErrAuth)
}

func TestRegisterDuplicateKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	require.NoError(t, b.Register(ctx, "ana", "1234"))

	err := b.Register(ctx, " ana ", "abcdef")
	require.ErrorIs(t, err, ErrDuplicateUser)

	u, ok := b.FindUser("ana")
	require.True(t, ok)
	assert.Equal(t, model.Obscure("1234"), u.Password)
	assert.Len(t, b.Snapshot().Users, 1)
	assert.True(t, b.Verify("ana", "1234"))
	assert.False(t, b.Verify("ana", "abcdef"))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	err := b.Register(ctx, "   ", "1234")
	require.ErrorIs(t, err, ErrInvalidName)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	err = b.Register(ctx, "ana", "123")
	require.ErrorIs(t, err, ErrWeakPassword)

	assert.Empty(t, b.Snapshot().Users)
}

func TestRegisterStoresObscuredPasswordAndAddsMember(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	require.NoError(t, b.Register(ctx, " ana ", "secret"))

	u, ok := b.FindUser("ana")
	require.True(t, ok)
	assert.Equal(t, "terces", u.Password)

	m, ok := b.Member("ana")
	require.True(t, ok)
	assert.Equal(t, model.ColorFor("ana"), m.Color)
}

func TestRegisterExistingMemberIsNotDuplicated(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)
	require.True(t, b.AddMember(ctx, "ana"))
	require.NoError(t, b.Register(ctx, "ana", "1234"))
	assert.Len(t, b.Members(), 1)
}

func TestLogoutKeepsTasks(t *testing.T) {
	ctx := context.Background()
	b, backend := newBoard(t)
	require.NoError(t, b.Register(ctx, "ana", "1234"))
	require.NoError(t, b.Login(ctx, "ana", "1234"))
	_, err := b.CreateTask(ctx, "survive logout", "")
	require.NoError(t, err)

	b.Logout(ctx)
	assert.Empty(t, b.CurrentUser())
	assert.Len(t, b.Tasks(), 1)

	reopened := openTestBoard(t, backend)
	assert.Len(t, reopened.Tasks(), 1)
	assert.Empty(t, reopened.CurrentUser())
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	b, _ := newBoard(t)

	assert.True(t, b.AddMember(ctx, " bob "))
	assert.False(t, b.AddMember(ctx, "bob"))
	assert.False(t, b.AddMember(ctx, "  "))
	assert.True(t, b.AddMember(ctx, "Bob"))

	members := b.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[0].Name)
	assert.Equal(t, "Bob", members[1].Name)

	_, ok := b.Member("BOB")
	assert.False(t, ok)
}
