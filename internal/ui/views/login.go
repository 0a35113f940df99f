package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tablero/internal/board"
	"github.com/dori/tablero/internal/ui/theme"
)

// LoggedInMsg is sent once a user has logged in or registered
type LoggedInMsg struct {
	User       string
	Registered bool
}

type loginFailedMsg struct{ err error }

const (
	fieldUser = iota
	fieldPassword
	fieldConfirm
	fieldCount
)

// LoginView is the login and registration form. Filling in the confirm
// field turns the submit into a registration.
type LoginView struct {
	board  *board.Board
	width  int
	height int

	inputs  [fieldCount]textinput.Model
	focused int
	errMsg  string
	busy    bool
}

// NewLoginView creates a new login view
func NewLoginView(b *board.Board) LoginView {
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 64
		inputs[i] = ti
	}
	inputs[fieldUser].Placeholder = "user"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldConfirm].Placeholder = "repeat password to register"
	for _, i := range []int{fieldPassword, fieldConfirm} {
		inputs[i].EchoMode = textinput.EchoPassword
		inputs[i].EchoCharacter = '•'
	}
	inputs[fieldUser].Focus()

	return LoginView{
		board:  b,
		inputs: inputs,
	}
}

// Init initializes the login view
func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v LoginView) SetSize(width, height int) LoginView {
	v.width = width
	v.height = height
	return v
}

// Reset clears the form, keeping the user name
func (v LoginView) Reset() LoginView {
	v.inputs[fieldPassword].SetValue("")
	v.inputs[fieldConfirm].SetValue("")
	v.errMsg = ""
	v.busy = false
	return v.focus(fieldPassword)
}

// Update handles messages
func (v LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginFailedMsg:
		v.busy = false
		v.errMsg = describe(msg.err)
		return v, nil

	case LoggedInMsg:
		v.busy = false
		v.inputs[fieldPassword].SetValue("")
		v.inputs[fieldConfirm].SetValue("")
		v.errMsg = ""
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return v.focus((v.focused + 1) % fieldCount), nil
		case "shift+tab", "up":
			return v.focus((v.focused + fieldCount - 1) % fieldCount), nil
		case "enter":
			if v.busy {
				return v, nil
			}
			return v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focused], cmd = v.inputs[v.focused].Update(msg)
	return v, cmd
}

func (v LoginView) focus(i int) LoginView {
	for j := range v.inputs {
		if j == i {
			v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	v.focused = i
	return v
}

func (v LoginView) submit() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(v.inputs[fieldUser].Value())
	password := v.inputs[fieldPassword].Value()
	confirm := v.inputs[fieldConfirm].Value()

	if name == "" || password == "" {
		v.errMsg = "enter user and password"
		return v, nil
	}

	register := strings.TrimSpace(confirm) != ""
	if register && password != confirm {
		v.errMsg = "passwords do not match"
		return v, nil
	}

	v.errMsg = ""
	v.busy = true
	b := v.board
	return v, func() tea.Msg {
		ctx := context.Background()
		if register {
			if err := b.Register(ctx, name, password); err != nil {
				return loginFailedMsg{err: err}
			}
		}
		if err := b.Login(ctx, name, password); err != nil {
			return loginFailedMsg{err: err}
		}
		return LoggedInMsg{User: name, Registered: register}
	}
}

// View renders the login form
func (v LoginView) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	labels := [fieldCount]string{"User", "Password", "Confirm"}
	var rows []string
	rows = append(rows, styles.Title.Render("tablero"))
	for i, in := range v.inputs {
		style := styles.Input
		if i == v.focused {
			style = styles.InputFocused
		}
		label := styles.Label.Width(10).Render(labels[i])
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, label, style.Width(32).Render(in.View())))
	}

	if v.errMsg != "" {
		rows = append(rows, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	} else if v.busy {
		rows = append(rows, lipgloss.NewStyle().Foreground(t.Info).Render("checking..."))
	} else {
		rows = append(rows, "")
	}
	rows = append(rows, styles.HelpDesc.Render("enter: log in (or register when confirm is filled) • tab: next field"))

	form := styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if v.width == 0 || v.height == 0 {
		return form
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, form)
}

// IsInputMode returns whether the view is in input mode
func (v LoginView) IsInputMode() bool {
	return true
}

// describe turns a board error into the message shown to the user
func describe(err error) string {
	var ve *board.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	switch {
	case errors.Is(err, board.ErrAuth):
		return "invalid username or password"
	case errors.Is(err, board.ErrDuplicateUser):
		return "user already exists"
	case errors.Is(err, board.ErrImport):
		return "import failed: file is not a board export"
	case errors.Is(err, board.ErrTaskNotFound):
		return "task no longer exists"
	}
	return err.Error()
}
