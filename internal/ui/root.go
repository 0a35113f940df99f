package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tablero/internal/app"
	"github.com/dori/tablero/internal/ui/theme"
	"github.com/dori/tablero/internal/ui/views"
	"go.uber.org/zap"
)

// RootModel is the main application model that switches between the login
// screen and the board
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	screen      Screen
	loginView   views.LoginView
	boardView   views.BoardView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = true

	if t, ok := theme.ByName(application.Config.UI.Theme); ok {
		theme.SetTheme(t)
	}

	return RootModel{
		app:       application,
		keys:      DefaultKeyMap(),
		help:      h,
		screen:    ScreenLogin,
		loginView: views.NewLoginView(application.Board),
		boardView: views.NewBoardView(application.Board),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m RootModel) isInputMode() bool {
	if m.screen == ScreenLogin {
		return m.loginView.IsInputMode()
	}
	return m.boardView.IsInputMode()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (2 lines)
		contentHeight := m.height - 3
		m.loginView = m.loginView.SetSize(m.width, contentHeight)
		m.boardView = m.boardView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.helpVisible = false
			}
			return m, nil
		}

		if !isInputMode && key.Matches(msg, m.keys.Help) {
			m.helpVisible = true
			return m, nil
		}

	case views.LoggedInMsg:
		m.loginView, _ = m.updateLogin(msg)
		m.screen = ScreenBoard
		if msg.Registered {
			m.statusMsg = fmt.Sprintf("Welcome, %s", msg.User)
		}
		return m, m.boardView.Init()

	case views.LoggedOutMsg:
		m.screen = ScreenLogin
		m.helpVisible = false
		m.loginView = m.loginView.Reset()
		m.statusMsg = "Logged out"
		return m, m.loginView.Init()

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.loginView, cmd = m.updateLogin(msg)
	case ScreenBoard:
		newBoardView, c := m.boardView.Update(msg)
		m.boardView = newBoardView.(views.BoardView)
		cmd = c
	}
	return m, cmd
}

func (m RootModel) updateLogin(msg tea.Msg) (views.LoginView, tea.Cmd) {
	newLoginView, cmd := m.loginView.Update(msg)
	return newLoginView.(views.LoginView), cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 3
	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp()
	case m.screen == ScreenLogin:
		content = m.loginView.View()
	default:
		content = m.boardView.View()
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("tablero")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	indicator := fmt.Sprintf("[%s]", m.screen.String())
	if user := m.app.Board.CurrentUser(); user != "" && m.screen == ScreenBoard {
		indicator = fmt.Sprintf("[%s: %s]", m.screen.String(), user)
	}
	viewIndicator := viewStyle.Render(indicator)

	themeIndicator := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := themeIndicator

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var hints string
	switch {
	case m.helpVisible:
		hints = key("?/esc", "close help")
	case m.screen == ScreenLogin:
		hints = key("enter", "log in") + sep +
			key("tab", "next field") + sep +
			key("ctrl+t", "theme") + sep +
			key("ctrl+c", "quit")
	case m.boardView.IsInputMode():
		hints = key("enter", "confirm") + sep + key("esc", "cancel")
	default:
		hints = key("1-3", "set column") + sep +
			key("m", "member") + sep +
			key("/", "search") + sep +
			key("x/i", "export/import") + sep +
			key("C", "clear") + sep +
			key("o", "logout") + sep +
			key("?", "help")
	}

	lines := []string{statusLine, hints}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("tablero help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Render("Press ? or esc to close"))
	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	next := theme.Next(theme.Current.Theme)
	theme.SetTheme(next)
	m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
	m.app.Logger.Debug("theme changed", zap.String("theme", next.Name))
}
