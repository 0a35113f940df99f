package ui

// Screen represents the active top-level screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenBoard
)

// String returns the display name for a screen
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Login"
	case ScreenBoard:
		return "Board"
	default:
		return "Unknown"
	}
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}
