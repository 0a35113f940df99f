package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Status represents the pipeline stage of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Pipeline lists the stages in board order
var Pipeline = []Status{StatusPending, StatusInProgress, StatusDone}

// Task text limits
const (
	MinTextLength = 3
	MaxTextLength = 200
)

// Task represents a card on the board
type Task struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	User   string    `json:"user"`
	Date   time.Time `json:"date"`
	Status Status    `json:"status"`
}

// ParseStatus maps a stored or typed status name to a pipeline stage.
// Older boards used the Spanish column names, which are accepted as aliases.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "pendiente", "todo":
		return StatusPending, true
	case "in-progress", "in_progress", "inprogress", "proceso", "doing":
		return StatusInProgress, true
	case "done", "completo", "completed":
		return StatusDone, true
	}
	return "", false
}

// Index returns the position of the status in the pipeline, or -1
func (s Status) Index() int {
	for i, p := range Pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the pipeline stages
func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Shift moves the status by delta stages, clamped to the ends of the pipeline
func (s Status) Shift(delta int) Status {
	idx := s.Index()
	if idx < 0 {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(Pipeline)-1 {
		idx = len(Pipeline) - 1
	}
	return Pipeline[idx]
}

// Label returns the column heading for the status
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// IsDone returns true if the task reached the last stage
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// ValidateText checks task text against the board rules and returns a
// human readable reason when it is rejected. Angle brackets are refused
// because task text ends up in rendered markup.
func ValidateText(text string) (string, bool) {
	t := strings.TrimSpace(text)
	n := utf8.RuneCountInString(t)
	if n == 0 {
		return "enter a task", false
	}
	if n < MinTextLength {
		return fmt.Sprintf("task is too short (min %d characters)", MinTextLength), false
	}
	if n > MaxTextLength {
		return fmt.Sprintf("task is too long (max %d characters)", MaxTextLength), false
	}
	if strings.ContainsAny(t, "<>") {
		return "task cannot contain < or > characters", false
	}
	return "", true
}
