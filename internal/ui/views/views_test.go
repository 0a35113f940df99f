package views

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tablero/internal/board"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) *board.Board {
	t.Helper()
	return board.Open(context.Background(), storage.NewGateway(storage.NewMemoryBackend()))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends one key and returns the command it produced. Commands from
// plain typing are cursor blinks and are never run.
func press(v BoardView, k string) (BoardView, tea.Cmd) {
	m, cmd := v.Update(keyMsg(k))
	return m.(BoardView), cmd
}

// settle runs cmd and feeds its messages back until nothing is left
func settle(t *testing.T, v BoardView, cmd tea.Cmd) BoardView {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		var m tea.Model
		m, cmd = v.Update(cmd())
		v = m.(BoardView)
	}
	return v
}

func loadedView(t *testing.T, b *board.Board) BoardView {
	t.Helper()
	v := NewBoardView(b).SetSize(120, 30)
	return settle(t, v, v.Init())
}

func addTask(t *testing.T, v BoardView, text string) BoardView {
	t.Helper()
	v, _ = press(v, "a")
	v, _ = press(v, text)
	v, cmd := press(v, "enter")
	require.NotNil(t, cmd)
	return settle(t, v, cmd)
}

func TestBoardViewAddAndMoveTask(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)

	v = addTask(t, v, "write docs")
	assert.Equal(t, "Task added", v.statusMsg)
	require.Len(t, v.columns[0], 1)
	id := v.columns[0][0].ID

	v, cmd := press(v, "L")
	v = settle(t, v, cmd)
	task, _ := b.Task(id)
	assert.Equal(t, model.StatusInProgress, task.Status)
	require.Len(t, v.columns[1], 1)

	// The cursor stayed on the first column, which is now empty
	v, cmd = press(v, "l")
	assert.Nil(t, cmd)
	v, cmd = press(v, "3")
	v = settle(t, v, cmd)
	task, _ = b.Task(id)
	assert.Equal(t, model.StatusDone, task.Status)
	assert.Len(t, v.columns[2], 1)
}

func TestBoardViewRejectsInvalidText(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)

	v = addTask(t, v, "ab")
	assert.True(t, v.statusErr)
	assert.Contains(t, v.statusMsg, "too short")
	assert.Empty(t, b.Tasks())
}

func TestBoardViewDeleteNeedsConfirmation(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)
	v = addTask(t, v, "doomed task")

	v, _ = press(v, "d")
	assert.True(t, v.IsInputMode())
	v, cmd := press(v, "n")
	assert.Nil(t, cmd)
	assert.Len(t, b.Tasks(), 1)

	v, _ = press(v, "d")
	v, cmd = press(v, "y")
	v = settle(t, v, cmd)
	assert.Empty(t, b.Tasks())
	assert.Empty(t, v.columns[0])
}

func TestBoardViewAssignFromPicker(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)
	require.True(t, b.AddMember(ctx, "ana"))
	require.True(t, b.AddMember(ctx, "bob"))
	v := loadedView(t, b)
	v = addTask(t, v, "pair on it")

	v, _ = press(v, "u")
	v, _ = press(v, "j")
	v, _ = press(v, "j")
	v, cmd := press(v, "enter")
	v = settle(t, v, cmd)

	assert.Equal(t, "bob", b.Tasks()[0].User)
	assert.Equal(t, "Assigned to bob", v.statusMsg)
}

func TestBoardViewSearchFilters(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)
	v = addTask(t, v, "buy milk")
	v = addTask(t, v, "fix bike")

	v, _ = press(v, "/")
	v, _ = press(v, "milk")
	v, _ = press(v, "enter")
	require.Len(t, v.filteredColumn(0), 1)
	assert.Equal(t, "buy milk", v.filteredColumn(0)[0].Text)

	v, _ = press(v, "esc")
	assert.Len(t, v.filteredColumn(0), 2)
}

func TestBoardViewExportImport(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)
	v = addTask(t, v, "exported task")
	path := filepath.Join(t.TempDir(), "board.json")

	v, _ = press(v, "x")
	v.textInput.SetValue(path)
	v, cmd := press(v, "enter")
	v = settle(t, v, cmd)
	assert.Equal(t, "Exported to "+path, v.statusMsg)
	_, err := os.Stat(path)
	require.NoError(t, err)

	other := newTestBoard(t)
	w := loadedView(t, other)
	w, _ = press(w, "i")
	w.textInput.SetValue(path)
	w, cmd = press(w, "enter")
	w = settle(t, w, cmd)
	assert.False(t, w.statusErr, w.statusMsg)
	require.Len(t, other.Tasks(), 1)
	assert.Equal(t, "exported task", other.Tasks()[0].Text)
}

func TestBoardViewClearBoard(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)
	v = addTask(t, v, "first one")
	v = addTask(t, v, "second one")

	v, _ = press(v, "C")
	v, cmd := press(v, "y")
	v = settle(t, v, cmd)
	assert.Empty(t, b.Tasks())
	assert.Contains(t, v.statusMsg, "2 tasks removed")
}

func TestBoardViewRenders(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)
	task, err := b.CreateTask(ctx, "render me", "ana")
	require.NoError(t, err)
	_, err = b.SetStatus(ctx, task.ID, model.StatusDone)
	require.NoError(t, err)

	out := loadedView(t, b).View()
	assert.Contains(t, out, "Pending (0)")
	assert.Contains(t, out, "Done (1)")
	assert.Contains(t, out, "render me")
	assert.Contains(t, out, "ana")
}

func TestBoardViewLogout(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)
	require.NoError(t, b.Register(ctx, "ana", "1234"))
	require.NoError(t, b.Login(ctx, "ana", "1234"))
	v := loadedView(t, b)

	_, cmd := press(v, "o")
	require.NotNil(t, cmd)
	assert.IsType(t, LoggedOutMsg{}, cmd())
	assert.Empty(t, b.CurrentUser())
}

func loginPress(v LoginView, k string) (LoginView, tea.Cmd) {
	m, cmd := v.Update(keyMsg(k))
	return m.(LoginView), cmd
}

func fillLogin(v LoginView, fields ...string) LoginView {
	for i, f := range fields {
		if i > 0 {
			v, _ = loginPress(v, "tab")
		}
		if f != "" {
			v, _ = loginPress(v, f)
		}
	}
	return v
}

func TestLoginViewRegisters(t *testing.T) {
	b := newTestBoard(t)
	v := fillLogin(NewLoginView(b), "ana", "1234", "1234")

	v, cmd := loginPress(v, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, LoggedInMsg{User: "ana", Registered: true}, cmd())
	assert.Equal(t, "ana", b.CurrentUser())
	assert.True(t, b.Verify("ana", "1234"))
}

func TestLoginViewPasswordMismatch(t *testing.T) {
	b := newTestBoard(t)
	v := fillLogin(NewLoginView(b), "ana", "1234", "4321")

	v, cmd := loginPress(v, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "passwords do not match", v.errMsg)
	_, ok := b.FindUser("ana")
	assert.False(t, ok)
}

func TestLoginViewWrongPassword(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)
	require.NoError(t, b.Register(ctx, "ana", "1234"))

	v := fillLogin(NewLoginView(b), "ana", "wrong")
	v, cmd := loginPress(v, "enter")
	require.NotNil(t, cmd)

	m, _ := v.Update(cmd())
	v = m.(LoginView)
	assert.Equal(t, "invalid username or password", v.errMsg)
	assert.Empty(t, b.CurrentUser())
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t)

	_, err := b.CreateTask(ctx, "<b>bold</b>", "")
	assert.Equal(t, "task cannot contain < or > characters", describe(err))

	require.NoError(t, b.Register(ctx, "ana", "1234"))
	assert.Equal(t, "user already exists", describe(b.Register(ctx, "ana", "1234")))
}

func TestDailyCounts(t *testing.T) {
	now := time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC)
	tasks := []model.Task{
		{Date: now},
		{Date: now.Add(-2 * time.Hour)},
		{Date: now.AddDate(0, 0, -1)},
		{Date: now.AddDate(0, 0, -13)},
		{Date: now.AddDate(0, 0, -14)},
		{Date: now.AddDate(0, 0, 3)},
	}

	counts := dailyCounts(tasks, now, 14)
	require.Len(t, counts, 14)
	assert.Equal(t, 2.0, counts[13])
	assert.Equal(t, 1.0, counts[12])
	assert.Equal(t, 1.0, counts[0])

	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 4.0, total)
}

func TestBoardViewActivityToggle(t *testing.T) {
	b := newTestBoard(t)
	v := loadedView(t, b)
	assert.Contains(t, v.renderActivity(time.Now()), "no activity")

	v = addTask(t, v, "counted today")
	v, cmd := press(v, "A")
	assert.Nil(t, cmd)
	assert.True(t, v.showActivity)
	assert.Contains(t, v.View(), "1 tasks")

	v, _ = press(v, "A")
	assert.NotContains(t, v.View(), "Last 14 days")
}
