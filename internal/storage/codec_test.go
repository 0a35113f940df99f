package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/dori/tablero/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loadTime = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

func testDecoder() Decoder {
	n := 0
	return Decoder{
		Now: func() time.Time { return loadTime },
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	}
}

func TestDecodeStatusMap(t *testing.T) {
	doc, err := testDecoder().Decode([]byte(`{ "pendiente": ["a","b"], "proceso": [], "completo": ["c"] }`))
	require.NoError(t, err)
	assert.Equal(t, FormatStatusMap, doc.Format)
	require.Len(t, doc.State.Tasks, 3)

	want := []struct {
		text   string
		status model.Status
	}{
		{"a", model.StatusPending},
		{"b", model.StatusPending},
		{"c", model.StatusDone},
	}
	seen := map[string]bool{}
	for i, w := range want {
		task := doc.State.Tasks[i]
		assert.Equal(t, w.text, task.Text)
		assert.Equal(t, w.status, task.Status)
		assert.Empty(t, task.User)
		assert.True(t, task.Date.Equal(loadTime))
		assert.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestDecodeStatusMapCanonicalKeys(t *testing.T) {
	doc, err := testDecoder().Decode([]byte(`{"in-progress": ["doing it", 42, null, ""]}`))
	require.NoError(t, err)
	assert.Equal(t, FormatStatusMap, doc.Format)
	require.Len(t, doc.State.Tasks, 2)
	assert.Equal(t, "doing it", doc.State.Tasks[0].Text)
	assert.Equal(t, "42", doc.State.Tasks[1].Text)
	assert.Equal(t, model.StatusInProgress, doc.State.Tasks[1].Status)
}

func TestDecodeTaskList(t *testing.T) {
	raw := `[
		{"id": "t1", "text": "first", "user": "ana", "date": "2020-01-01T00:00:00Z", "status": "proceso"},
		{"text": "no id", "status": "weird"},
		"garbage",
		{}
	]`
	doc, err := testDecoder().Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, FormatTaskList, doc.Format)
	require.Len(t, doc.State.Tasks, 2)

	first := doc.State.Tasks[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, model.StatusInProgress, first.Status)
	assert.Empty(t, first.User)
	assert.True(t, first.Date.Equal(loadTime))

	second := doc.State.Tasks[1]
	assert.Equal(t, "gen-1", second.ID)
	assert.Equal(t, model.StatusPending, second.Status)
	assert.Empty(t, doc.State.Members)
	assert.Empty(t, doc.State.Users)
}

func TestDecodeCurrentNormalizes(t *testing.T) {
	raw := `{
		"tasks": [
			{"id": "t1", "text": "keep", "user": "ana", "date": "2023-05-01T12:30:00.000Z", "status": "done"},
			{"id": "t2", "text": "bad date", "date": "yesterday", "status": "completo"},
			7
		],
		"members": ["ana", {"name": "bob", "color": "red"}, {"color": "blue"}, null, 3, "ana", "  "],
		"users": [{"name": "ana", "password": "4321"}, "legacy", {"password": "x"}]
	}`
	doc, err := testDecoder().Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, FormatCurrent, doc.Format)

	require.Len(t, doc.State.Tasks, 2)
	assert.Equal(t, "ana", doc.State.Tasks[0].User)
	assert.True(t, doc.State.Tasks[0].Date.Equal(time.Date(2023, time.May, 1, 12, 30, 0, 0, time.UTC)))
	assert.True(t, doc.State.Tasks[1].Date.Equal(loadTime))
	assert.Equal(t, model.StatusDone, doc.State.Tasks[1].Status)

	require.Len(t, doc.State.Members, 2)
	assert.Equal(t, "ana", doc.State.Members[0].Name)
	assert.Equal(t, model.ColorFor("bob"), doc.State.Members[1].Color, "colors are derived, not trusted")

	require.Len(t, doc.State.Users, 2)
	assert.Equal(t, model.User{Name: "ana", Password: "4321"}, doc.State.Users[0])
	assert.Equal(t, model.User{Name: "legacy"}, doc.State.Users[1])
}

func TestDecodeRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`{"tasks": [`,
		`null`,
		`42`,
		`"text"`,
		`{}`,
		`{"foo": ["a"]}`,
		`{"tasks": "nope"}`,
		`{"pendiente": "not a list"}`,
		`{"users": []}`,
		`{"members": ["x"]}`,
		`{"members": [], "users": []}`,
		`{"tasks": null}`,
	} {
		doc, err := testDecoder().Decode([]byte(raw))
		assert.ErrorIs(t, err, ErrUnrecognized, "input %q", raw)
		assert.Equal(t, FormatUnknown, doc.Format)
	}
}

func TestEncodeUsesEmptyLists(t *testing.T) {
	data, err := Encode(model.State{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"members":[],"users":[]}`, string(data))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := model.State{
		Tasks: []model.Task{
			{ID: "t1", Text: "write docs", User: "ana", Date: model.Timestamp(time.Now()), Status: model.StatusInProgress},
			{ID: "t2", Text: "ship", Date: model.Timestamp(time.Now().Add(time.Hour)), Status: model.StatusPending},
		},
		Members: []model.Member{model.NewMember("ana"), model.NewMember("bob")},
		Users:   []model.User{{Name: "ana", Password: model.Obscure("1234")}},
	}

	data, err := EncodeIndent(state)
	require.NoError(t, err)

	doc, err := testDecoder().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FormatCurrent, doc.Format)
	assertSameState(t, state, doc.State)
}

// assertSameState compares tasks in order and members/users as sets
func assertSameState(t *testing.T, want, got model.State) {
	t.Helper()
	require.Len(t, got.Tasks, len(want.Tasks))
	for i := range want.Tasks {
		w, g := want.Tasks[i], got.Tasks[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Text, g.Text)
		assert.Equal(t, w.User, g.User)
		assert.Equal(t, w.Status, g.Status)
		assert.True(t, w.Date.Equal(g.Date), "date %v != %v", w.Date, g.Date)
	}
	assert.ElementsMatch(t, want.Members, got.Members)
	assert.ElementsMatch(t, want.Users, got.Users)
}

func TestDecodeCurrentNeedsOnlyTasks(t *testing.T) {
	doc, err := testDecoder().Decode([]byte(`{"tasks": []}`))
	require.NoError(t, err)
	assert.Equal(t, FormatCurrent, doc.Format)
	assert.Empty(t, doc.State.Tasks)
	assert.Empty(t, doc.State.Members)
	assert.Empty(t, doc.State.Users)
}
