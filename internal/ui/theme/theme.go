package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tablero/internal/model"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the color scheme and styles for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Column colors
	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color
}

// StatusColor returns the column color for a pipeline stage
func (t Theme) StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusInProgress:
		return t.StatusInProgress
	case model.StatusDone:
		return t.StatusDone
	default:
		return t.StatusPending
	}
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style

	// Component styles
	Title lipgloss.Style
	Label lipgloss.Style
	Date  lipgloss.Style

	// Cards and the member picker
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardDone     lipgloss.Style
	Picker       lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Panel styles
	Panel lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		// Component styles
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Date: lipgloss.NewStyle().
			Foreground(t.Warning),

		Card: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(t.Foreground),

		CardSelected: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(t.Foreground).
			Background(t.Highlight),

		CardDone: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(t.Subtle),

		Picker: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		// Input styles
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		// Panel styles
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		// Help styles
		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Next returns the theme after t, wrapping around
func Next(t Theme) Theme {
	themes := Available()
	for i, candidate := range themes {
		if candidate.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// MemberColor renders a member's hue at 70% saturation and 45% lightness,
// the same color the board state records for that name.
func MemberColor(name string) lipgloss.Color {
	c := colorful.Hsl(float64(model.HueFor(name)), 0.70, 0.45)
	return lipgloss.Color(c.Hex())
}

// Badge is the colored name tag shown on a member's cards
func Badge(name string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(MemberColor(name)).
		Foreground(BadgeForeground(name)).
		Padding(0, 1)
}

// BadgeForeground picks black or white text, whichever reads better on the
// member's color
func BadgeForeground(name string) lipgloss.Color {
	c := colorful.Hsl(float64(model.HueFor(name)), 0.70, 0.45)
	_, _, l := c.Hcl()
	if l > 0.6 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}
