package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tablero/internal/model"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, want := range Available() {
		got, ok := ByName(want.Name)
		require.True(t, ok, want.Name)
		assert.Equal(t, want.Name, got.Name)
	}
	_, ok := ByName("solarized")
	assert.False(t, ok)
}

func TestNextCyclesThroughAll(t *testing.T) {
	seen := map[string]bool{}
	th := Nord
	for range Available() {
		seen[th.Name] = true
		th = Next(th)
	}
	assert.Equal(t, Nord.Name, th.Name)
	assert.Len(t, seen, len(Available()))
}

func TestMemberColorIsStable(t *testing.T) {
	assert.Equal(t, MemberColor("ana"), MemberColor("ana"))
	assert.NotEqual(t, MemberColor("ana"), MemberColor("bob"))

	c, err := colorful.Hex(string(MemberColor("ana")))
	require.NoError(t, err)
	_, s, l := c.Hsl()
	assert.InDelta(t, 0.70, s, 0.03)
	assert.InDelta(t, 0.45, l, 0.02)
}

func TestBadgeForeground(t *testing.T) {
	fg := BadgeForeground("ana")
	assert.Contains(t, []lipgloss.Color{"#000000", "#FFFFFF"}, fg)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(Nord) })
	SetTheme(Dracula)
	assert.Equal(t, "dracula", Current.Theme.Name)
}

func TestStatusColorsFollowPalette(t *testing.T) {
	for _, th := range Available() {
		assert.Equal(t, th.Warning, th.StatusColor(model.StatusPending), th.Name)
		assert.Equal(t, th.StatusInProgress, th.StatusColor(model.StatusInProgress), th.Name)
		assert.Equal(t, th.Success, th.StatusColor(model.StatusDone), th.Name)
		assert.Equal(t, th.StatusPending, th.StatusColor(model.Status("bogus")), th.Name)
	}
}

func TestBadgeUsesMemberColor(t *testing.T) {
	style := Badge("ana")
	assert.Equal(t, lipgloss.TerminalColor(MemberColor("ana")), style.GetBackground())
	assert.Equal(t, lipgloss.TerminalColor(BadgeForeground("ana")), style.GetForeground())
}
