package theme

import "github.com/charmbracelet/lipgloss"

// palette is a theme's colors as hex strings. Pending cards use the warning
// color and done cards the success color; only the in-progress column has
// its own accent.
type palette struct {
	name string

	bg, fg, subtle, highlight, border string
	primary, secondary, info         string
	success, warning, failure        string
	inProgress                       string
}

func (p palette) theme() Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return Theme{
		Name:             p.name,
		Background:       c(p.bg),
		Foreground:       c(p.fg),
		Subtle:           c(p.subtle),
		Highlight:        c(p.highlight),
		Border:           c(p.border),
		Primary:          c(p.primary),
		Secondary:        c(p.secondary),
		Info:             c(p.info),
		Success:          c(p.success),
		Warning:          c(p.warning),
		Error:            c(p.failure),
		StatusPending:    c(p.warning),
		StatusInProgress: c(p.inProgress),
		StatusDone:       c(p.success),
	}
}

var (
	// Nord, https://www.nordtheme.com/
	Nord = palette{
		name: "nord",
		bg: "#2E3440", fg: "#ECEFF4", subtle: "#4C566A", highlight: "#3B4252", border: "#4C566A",
		primary: "#88C0D0", secondary: "#81A1C1", info: "#5E81AC",
		success: "#A3BE8C", warning: "#EBCB8B", failure: "#BF616A",
		inProgress: "#88C0D0",
	}.theme()

	// Dracula, https://draculatheme.com/
	Dracula = palette{
		name: "dracula",
		bg: "#282A36", fg: "#F8F8F2", subtle: "#6272A4", highlight: "#44475A", border: "#6272A4",
		primary: "#BD93F9", secondary: "#8BE9FD", info: "#8BE9FD",
		success: "#50FA7B", warning: "#F1FA8C", failure: "#FF5555",
		inProgress: "#8BE9FD",
	}.theme()

	// Gruvbox dark, https://github.com/morhetz/gruvbox
	Gruvbox = palette{
		name: "gruvbox",
		bg: "#282828", fg: "#EBDBB2", subtle: "#928374", highlight: "#3C3836", border: "#504945",
		primary: "#83A598", secondary: "#8EC07C", info: "#83A598",
		success: "#B8BB26", warning: "#FABD2F", failure: "#FB4934",
		inProgress: "#83A598",
	}.theme()

	// Catppuccin Mocha, https://github.com/catppuccin/catppuccin
	Catppuccin = palette{
		name: "catppuccin",
		bg: "#1E1E2E", fg: "#CDD6F4", subtle: "#6C7086", highlight: "#313244", border: "#45475A",
		primary: "#89B4FA", secondary: "#CBA6F7", info: "#74C7EC",
		success: "#A6E3A1", warning: "#F9E2AF", failure: "#F38BA8",
		inProgress: "#89B4FA",
	}.theme()
)
