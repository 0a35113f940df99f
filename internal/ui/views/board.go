package views

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tablero/internal/board"
	"github.com/dori/tablero/internal/model"
	"github.com/dori/tablero/internal/ui/theme"
)

// DefaultExportFile is offered when exporting or importing
const DefaultExportFile = "boardState.json"

// Local message types for the board view
type boardLoadedMsg struct {
	columns [3][]model.Task
	members []model.Member
}

type boardUpdatedMsg struct{ status string }

type boardErrorMsg struct{ err error }

// LoggedOutMsg is sent after the session has ended
type LoggedOutMsg struct{}

// BoardMode represents the current input mode
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeAdd
	BoardModeEdit
	BoardModeSearch
	BoardModeReschedule
	BoardModeAddMember
	BoardModeExport
	BoardModeImport
	BoardModeConfirmDelete
	BoardModeConfirmClear
	BoardModeAssign
)

// BoardView is the three column board
type BoardView struct {
	board  *board.Board
	width  int
	height int

	// Tasks organized by column, in board order
	columns [3][]model.Task
	members []model.Member

	// Navigation state
	currentColumn int
	cursorRow     int

	// Per-column scroll offset
	columnScroll [3]int

	// Status message
	statusMsg string
	statusErr bool

	// Input mode
	mode      BoardMode
	textInput textinput.Model

	// Task the current mode acts on
	targetID string

	// Member picker; index 0 is "unassigned"
	pickerCursor int

	searchFilter string
	showActivity bool
}

// NewBoardView creates a new board view
func NewBoardView(b *board.Board) BoardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return BoardView{
		board:     b,
		textInput: ti,
	}
}

// Init initializes the board view
func (v BoardView) Init() tea.Cmd {
	return v.loadTasks()
}

// SetSize sets the view dimensions
func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	return v
}

// loadTasks reads the board and organizes tasks by status
func (v BoardView) loadTasks() tea.Cmd {
	b := v.board
	return func() tea.Msg {
		state := b.Snapshot()
		var columns [3][]model.Task
		for _, t := range state.Tasks {
			idx := t.Status.Index()
			if idx < 0 {
				idx = 0
			}
			columns[idx] = append(columns[idx], t)
		}
		return boardLoadedMsg{columns: columns, members: state.Members}
	}
}

// Update handles messages
func (v BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.columns = msg.columns
		v.members = msg.members
		v.clampCursor()
		return v, nil

	case boardUpdatedMsg:
		v.setStatus(msg.status)
		if err := v.board.LastSaveError(); err != nil {
			v.statusMsg = "not saved: " + err.Error()
			v.statusErr = true
		}
		return v, v.loadTasks()

	case boardErrorMsg:
		v.statusMsg = describe(msg.err)
		v.statusErr = true
		return v, v.loadTasks()

	case tea.KeyMsg:
		switch v.mode {
		case BoardModeAdd, BoardModeEdit, BoardModeSearch, BoardModeReschedule,
			BoardModeAddMember, BoardModeExport, BoardModeImport:
			return v.handleInputMode(msg)
		case BoardModeConfirmDelete, BoardModeConfirmClear:
			return v.handleConfirmMode(msg)
		case BoardModeAssign:
			return v.handleAssignMode(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.textInput.Focused() {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *BoardView) setStatus(s string) {
	v.statusMsg = s
	v.statusErr = false
}

// handleNormalMode handles keys in normal mode
func (v BoardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.setStatus("")

	switch msg.String() {
	// Column navigation
	case "h", "left":
		if v.currentColumn > 0 {
			v.currentColumn--
			v.clampCursor()
		}
		return v, nil

	case "l", "right":
		if v.currentColumn < len(model.Pipeline)-1 {
			v.currentColumn++
			v.clampCursor()
		}
		return v, nil

	// Row navigation
	case "j", "down":
		col := v.filteredColumn(v.currentColumn)
		if v.cursorRow < len(col)-1 {
			v.cursorRow++
			v.ensureCursorVisible()
		}
		return v, nil

	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureCursorVisible()
		}
		return v, nil

	case "g":
		v.cursorRow = 0
		v.columnScroll[v.currentColumn] = 0
		return v, nil

	case "G":
		col := v.filteredColumn(v.currentColumn)
		if len(col) > 0 {
			v.cursorRow = len(col) - 1
			v.ensureCursorVisible()
		}
		return v, nil

	// Move task between columns
	case "H":
		return v, v.moveTask(-1)

	case "L":
		return v, v.moveTask(1)

	case "1", "2", "3":
		return v, v.setTaskStatus(model.Pipeline[int(msg.String()[0]-'1')])

	case "a":
		return v.startInput(BoardModeAdd, "", "New task..."), nil

	case "e", "enter":
		if task, ok := v.currentTask(); ok {
			v = v.startInput(BoardModeEdit, task.Text, "")
			v.targetID = task.ID
		}
		return v, nil

	case "D":
		if task, ok := v.currentTask(); ok {
			v = v.startInput(BoardModeReschedule, "", "tomorrow, friday, 2024-05-01, 2024-05-01T09:00...")
			v.targetID = task.ID
		}
		return v, nil

	case "u":
		if task, ok := v.currentTask(); ok {
			v.mode = BoardModeAssign
			v.targetID = task.ID
			v.pickerCursor = 0
			for i, m := range v.members {
				if m.Name == task.User {
					v.pickerCursor = i + 1
				}
			}
		}
		return v, nil

	case "d":
		if task, ok := v.currentTask(); ok {
			v.mode = BoardModeConfirmDelete
			v.targetID = task.ID
		}
		return v, nil

	case "m":
		return v.startInput(BoardModeAddMember, "", "Member name..."), nil

	case "/":
		return v.startInput(BoardModeSearch, v.searchFilter, "Search..."), nil

	case "C":
		v.mode = BoardModeConfirmClear
		return v, nil

	case "x":
		return v.startInput(BoardModeExport, DefaultExportFile, ""), nil

	case "i":
		return v.startInput(BoardModeImport, DefaultExportFile, ""), nil

	case "o":
		return v, v.logout()

	case "A":
		v.showActivity = !v.showActivity
		return v, nil

	// Clear filters
	case "esc":
		if v.searchFilter != "" {
			v.searchFilter = ""
			v.cursorRow = 0
			v.setStatus("Filter cleared")
		}
		return v, nil
	}

	return v, nil
}

func (v BoardView) startInput(mode BoardMode, value, placeholder string) BoardView {
	v.mode = mode
	v.textInput.SetValue(value)
	v.textInput.Placeholder = placeholder
	v.textInput.Focus()
	v.textInput.CursorEnd()
	return v
}

func (v BoardView) endInput() BoardView {
	v.mode = BoardModeNormal
	v.textInput.Blur()
	v.targetID = ""
	return v
}

// handleInputMode handles keys while a text prompt is open
func (v BoardView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.mode == BoardModeSearch {
			v.searchFilter = ""
		}
		return v.endInput(), nil

	case "enter":
		value := v.textInput.Value()
		mode, id := v.mode, v.targetID
		v = v.endInput()

		switch mode {
		case BoardModeAdd:
			return v, v.createTask(value)
		case BoardModeEdit:
			return v, v.editTask(id, value)
		case BoardModeReschedule:
			return v, v.rescheduleTask(id, value)
		case BoardModeAddMember:
			return v, v.addMember(value)
		case BoardModeExport:
			return v, v.exportTo(strings.TrimSpace(value))
		case BoardModeImport:
			return v, v.importFrom(strings.TrimSpace(value))
		case BoardModeSearch:
			v.searchFilter = strings.TrimSpace(value)
			// Reset cursor positions when filter changes
			v.cursorRow = 0
			for i := range v.columnScroll {
				v.columnScroll[i] = 0
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	if v.mode == BoardModeSearch {
		v.searchFilter = strings.TrimSpace(v.textInput.Value())
		v.clampCursor()
	}
	return v, cmd
}

// handleConfirmMode handles y/n prompts
func (v BoardView) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		mode, id := v.mode, v.targetID
		v = v.endInput()
		if mode == BoardModeConfirmClear {
			return v, v.clearBoard()
		}
		return v, v.deleteTask(id)
	case "n", "N", "esc":
		return v.endInput(), nil
	}
	return v, nil
}

// handleAssignMode handles the member picker
func (v BoardView) handleAssignMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.pickerCursor < len(v.members) {
			v.pickerCursor++
		}
	case "k", "up":
		if v.pickerCursor > 0 {
			v.pickerCursor--
		}
	case "enter":
		name := ""
		if v.pickerCursor > 0 && v.pickerCursor <= len(v.members) {
			name = v.members[v.pickerCursor-1].Name
		}
		id := v.targetID
		v = v.endInput()
		return v, v.reassignTask(id, name)
	case "esc":
		return v.endInput(), nil
	}
	return v, nil
}

func (v BoardView) currentTask() (model.Task, bool) {
	col := v.filteredColumn(v.currentColumn)
	if len(col) == 0 || v.cursorRow >= len(col) {
		return model.Task{}, false
	}
	return col[v.cursorRow], true
}

// clampCursor ensures cursor is valid for current column
func (v *BoardView) clampCursor() {
	col := v.filteredColumn(v.currentColumn)
	if v.cursorRow >= len(col) {
		if len(col) > 0 {
			v.cursorRow = len(col) - 1
		} else {
			v.cursorRow = 0
		}
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep cursor in view
func (v *BoardView) ensureCursorVisible() {
	visibleItems := v.visibleItemCount()
	col := v.currentColumn

	if v.cursorRow >= v.columnScroll[col]+visibleItems {
		v.columnScroll[col] = v.cursorRow - visibleItems + 1
	}
	if v.cursorRow < v.columnScroll[col] {
		v.columnScroll[col] = v.cursorRow
	}
}

// visibleItemCount returns how many cards fit in the column height.
// Borders, the header row, the footer and two scroll markers take 7 lines;
// each card takes 2.
func (v *BoardView) visibleItemCount() int {
	height := v.height
	if v.showActivity {
		height--
	}
	available := (height - 7) / 2
	if available < 1 {
		return 1
	}
	return available
}

// filteredColumn returns tasks for a column after applying the search filter
func (v *BoardView) filteredColumn(colIndex int) []model.Task {
	tasks := v.columns[colIndex]
	if v.searchFilter == "" {
		return tasks
	}

	var filtered []model.Task
	searchLower := strings.ToLower(v.searchFilter)
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Text), searchLower) ||
			strings.Contains(strings.ToLower(task.User), searchLower) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// mutate runs fn against the board off the UI goroutine
func (v BoardView) mutate(fn func(ctx context.Context, b *board.Board) (string, error)) tea.Cmd {
	b := v.board
	return func() tea.Msg {
		status, err := fn(context.Background(), b)
		if err != nil {
			return boardErrorMsg{err: err}
		}
		return boardUpdatedMsg{status: status}
	}
}

func (v BoardView) moveTask(delta int) tea.Cmd {
	task, ok := v.currentTask()
	if !ok {
		return nil
	}
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		moved, ok := b.Move(ctx, task.ID, delta)
		if !ok || moved.Status == task.Status {
			return "", nil
		}
		return "Moved to " + moved.Status.Label(), nil
	})
}

func (v BoardView) setTaskStatus(status model.Status) tea.Cmd {
	task, ok := v.currentTask()
	if !ok || task.Status == status {
		return nil
	}
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		if _, err := b.SetStatus(ctx, task.ID, status); err != nil {
			return "", err
		}
		return "Moved to " + status.Label(), nil
	})
}

func (v BoardView) createTask(text string) tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		if _, err := b.CreateTask(ctx, text, ""); err != nil {
			return "", err
		}
		return "Task added", nil
	})
}

func (v BoardView) editTask(id, text string) tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		if _, err := b.EditText(ctx, id, text); err != nil {
			return "", err
		}
		return "Task updated", nil
	})
}

func (v BoardView) rescheduleTask(id, value string) tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		task, err := b.Reschedule(ctx, id, value)
		if err != nil {
			return "", err
		}
		return "Due " + formatDate(task), nil
	})
}

func (v BoardView) reassignTask(id, member string) tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		if _, err := b.Reassign(ctx, id, member); err != nil {
			return "", err
		}
		if member == "" {
			return "Unassigned", nil
		}
		return "Assigned to " + member, nil
	})
}

func (v BoardView) deleteTask(id string) tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		if err := b.DeleteTask(ctx, id); err != nil {
			return "", err
		}
		return "Task deleted", nil
	})
}

func (v BoardView) addMember(name string) tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		if !b.AddMember(ctx, name) {
			return "", fmt.Errorf("member %q is empty or already exists", strings.TrimSpace(name))
		}
		return "Member added: " + strings.TrimSpace(name), nil
	})
}

func (v BoardView) clearBoard() tea.Cmd {
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		n := b.Clear(ctx)
		return fmt.Sprintf("Board cleared (%d tasks removed)", n), nil
	})
}

func (v BoardView) exportTo(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return v.mutate(func(_ context.Context, b *board.Board) (string, error) {
		data, err := b.Export()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("export failed: %w", err)
		}
		return "Exported to " + path, nil
	})
}

func (v BoardView) importFrom(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return v.mutate(func(ctx context.Context, b *board.Board) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("import failed: %w", err)
		}
		format, err := b.Import(ctx, data)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Imported %s (%s format)", path, format), nil
	})
}

func (v BoardView) logout() tea.Cmd {
	b := v.board
	return func() tea.Msg {
		b.Logout(context.Background())
		return LoggedOutMsg{}
	}
}

// formatDate renders a task date in local time
func formatDate(t model.Task) string {
	if t.Date.IsZero() {
		return ""
	}
	return t.Date.Local().Format("Jan 2 15:04")
}

// View renders the board
func (v BoardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	colWidth := (v.width - 6) / len(model.Pipeline)
	if colWidth < 24 {
		colWidth = 24
	}

	// Style for column headers
	headerStyle := func(s model.Status, active bool) lipgloss.Style {
		hs := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.StatusColor(s)).
			Width(colWidth + 2).
			Align(lipgloss.Center)
		if active {
			hs = hs.Background(t.Highlight)
		}
		return hs
	}

	colHeight := v.height - 4
	if v.showActivity {
		colHeight--
	}
	columnStyle := lipgloss.NewStyle().
		Width(colWidth).
		Height(colHeight).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	var headers []string
	for i, s := range model.Pipeline {
		tasks := v.filteredColumn(i)
		header := fmt.Sprintf("%s (%d)", s.Label(), len(tasks))
		if v.searchFilter != "" && len(tasks) != len(v.columns[i]) {
			header = fmt.Sprintf("%s (%d/%d)", s.Label(), len(tasks), len(v.columns[i]))
		}
		headers = append(headers, headerStyle(s, i == v.currentColumn).Render(header))
	}
	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headers...)

	visibleItems := v.visibleItemCount()
	var cols []string
	for i := range model.Pipeline {
		tasks := v.filteredColumn(i)
		isActiveCol := i == v.currentColumn
		scrollOffset := v.columnScroll[i]

		startIdx := min(scrollOffset, len(tasks))
		endIdx := min(scrollOffset+visibleItems, len(tasks))

		var items []string
		if scrollOffset > 0 {
			items = append(items, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Width(colWidth-2).
				Align(lipgloss.Center).
				Render(fmt.Sprintf("↑ %d more", scrollOffset)))
		}

		for j := startIdx; j < endIdx; j++ {
			items = append(items, v.renderCard(tasks[j], colWidth-2, isActiveCol && j == v.cursorRow))
		}

		if endIdx < len(tasks) {
			items = append(items, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Width(colWidth-2).
				Align(lipgloss.Center).
				Render(fmt.Sprintf("↓ %d more", len(tasks)-endIdx)))
		}

		content := strings.Join(items, "\n")
		if len(tasks) == 0 {
			content = lipgloss.NewStyle().
				Foreground(t.Subtle).
				Italic(true).
				Render("(empty)")
		}

		cs := columnStyle
		if isActiveCol {
			cs = cs.BorderForeground(t.Primary)
		}
		cols = append(cols, cs.Render(content))
	}
	columnsRow := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	var footer string
	inputStyle := styles.InputFocused.Width(v.width - 4)

	switch v.mode {
	case BoardModeAdd:
		footer = inputStyle.Render("Add task: " + v.textInput.View())
	case BoardModeEdit:
		footer = inputStyle.Render("Edit: " + v.textInput.View())
	case BoardModeSearch:
		footer = inputStyle.Render("Search: " + v.textInput.View())
	case BoardModeReschedule:
		footer = inputStyle.Render("Due: " + v.textInput.View())
	case BoardModeAddMember:
		footer = inputStyle.Render("New member: " + v.textInput.View())
	case BoardModeExport:
		footer = inputStyle.Render("Export to: " + v.textInput.View())
	case BoardModeImport:
		footer = inputStyle.Render("Import from: " + v.textInput.View())
	case BoardModeConfirmDelete:
		text := ""
		if task, ok := v.currentTask(); ok {
			text = task.Text
		}
		footer = lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", text))
	case BoardModeConfirmClear:
		footer = lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render("Clear every task from the board? This cannot be undone. (y/n)")
	case BoardModeAssign:
		footer = v.renderMemberPicker()
	default:
		switch {
		case v.statusMsg != "" && v.statusErr:
			footer = lipgloss.NewStyle().Foreground(t.Error).Render(v.statusMsg)
		case v.statusMsg != "":
			footer = lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg)
		case v.searchFilter != "":
			footer = lipgloss.NewStyle().Foreground(t.Info).Render("[Search: "+v.searchFilter+"] ") +
				styles.HelpDesc.Render("esc: clear")
		default:
			footer = styles.HelpDesc.Render("h/l: column • j/k: nav • H/L: move • a: add • e: edit • u: assign • D: due • d: del • ?: help")
		}
	}

	rows := []string{headerRow, columnsRow}
	if v.showActivity {
		rows = append(rows, v.renderActivity(time.Now()))
	}
	rows = append(rows, footer)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard renders one task as two lines: text, then assignee and date
func (v BoardView) renderCard(task model.Task, width int, selected bool) string {
	styles := theme.Current.Styles

	cardStyle := styles.Card
	switch {
	case selected:
		cardStyle = styles.CardSelected
	case task.IsDone():
		cardStyle = styles.CardDone
	}

	text := task.Text
	maxText := max(width-4, 8)
	if r := []rune(text); len(r) > maxText {
		text = string(r[:maxText-3]) + "..."
	}

	var meta []string
	if task.User != "" {
		meta = append(meta, theme.Badge(task.User).Render(task.User))
	}
	if d := formatDate(task); d != "" {
		meta = append(meta, styles.Date.Render(d))
	}

	return cardStyle.Width(width).Render(text + "\n" + strings.Join(meta, " "))
}

// renderMemberPicker renders the assignee selector popup
func (v BoardView) renderMemberPicker() string {
	t := theme.Current.Theme

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Assign to:"))

	options := append([]string{"(unassigned)"}, memberNames(v.members)...)
	for i, name := range options {
		style := lipgloss.NewStyle()
		if i == v.pickerCursor {
			style = style.Background(t.Highlight).Foreground(t.Foreground)
		}
		dot := lipgloss.NewStyle().Foreground(t.Subtle).Render("○")
		if i > 0 {
			dot = lipgloss.NewStyle().Foreground(theme.MemberColor(name)).Render("●")
		}
		lines = append(lines, style.Render(fmt.Sprintf(" %s %s", dot, name)))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render("j/k: navigate • enter: select • esc: cancel"))

	return theme.Current.Styles.Picker.Render(strings.Join(lines, "\n"))
}

func memberNames(members []model.Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}

// IsInputMode returns whether the view is in input mode
func (v BoardView) IsInputMode() bool {
	return v.mode != BoardModeNormal
}
