package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/dori/tablero/internal/model"
	"go.uber.org/zap"
)

// CreateTask adds a pending task. An empty assignee falls back to the
// logged in user. Invalid text leaves the board unchanged.
func (b *Board) CreateTask(ctx context.Context, text, assignee string) (model.Task, error) {
	if reason, ok := model.ValidateText(text); !ok {
		return model.Task{}, invalid(ErrInvalidText, "text", reason)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		assignee = b.session
	}

	task := model.Task{
		ID:     b.newID(),
		Text:   strings.TrimSpace(text),
		User:   assignee,
		Date:   model.Timestamp(b.now()),
		Status: model.Pipeline[0],
	}
	b.state.Tasks = append(b.state.Tasks, task)
	b.logger.Debug("task created", zap.String("task_id", task.ID), zap.String("user", task.User))
	b.persist(ctx)
	return task, nil
}

// Move shifts a task delta stages along the pipeline, stopping at either
// end. It reports false, and does nothing, when id is unknown.
func (b *Board) Move(ctx context.Context, id string, delta int) (model.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.state.FindTask(id)
	if i < 0 {
		return model.Task{}, false
	}
	t := &b.state.Tasks[i]
	t.Status = t.Status.Shift(delta)
	b.persist(ctx)
	return *t, true
}

// SetStatus puts a task straight into any stage
func (b *Board) SetStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, invalid(ErrInvalidStatus, "status",
			fmt.Sprintf("unknown status %q (want pending, in-progress or done)", status))
	}
	return b.update(ctx, id, func(t *model.Task) {
		t.Status = status
	})
}

// DeleteTask removes a task. Asking for confirmation is up to the caller.
func (b *Board) DeleteTask(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.state.FindTask(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	b.state.Tasks = append(b.state.Tasks[:i], b.state.Tasks[i+1:]...)
	b.logger.Debug("task deleted", zap.String("task_id", id))
	b.persist(ctx)
	return nil
}

// Reassign sets the task's user. A name nobody has used before becomes a
// member; an empty name unassigns the task.
func (b *Board) Reassign(ctx context.Context, id, member string) (model.Task, error) {
	member = strings.TrimSpace(member)

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.updateLocked(ctx, id, func(t *model.Task) {
		t.User = member
		if member != "" {
			b.addMemberLocked(member)
		}
	})
}

// Reschedule sets the task's date from value, which may be a timestamp, a
// calendar date or a word like "tomorrow" (see model.ParseDate).
func (b *Board) Reschedule(ctx context.Context, id, value string) (model.Task, error) {
	date, ok := model.ParseDate(value, b.now())
	if !ok {
		return model.Task{}, invalid(ErrInvalidDate, "date", fmt.Sprintf("cannot parse date %q", value))
	}
	return b.update(ctx, id, func(t *model.Task) {
		t.Date = model.Timestamp(date)
	})
}

// EditText replaces the task's text, with the same rules as CreateTask
func (b *Board) EditText(ctx context.Context, id, text string) (model.Task, error) {
	if reason, ok := model.ValidateText(text); !ok {
		return model.Task{}, invalid(ErrInvalidText, "text", reason)
	}
	return b.update(ctx, id, func(t *model.Task) {
		t.Text = strings.TrimSpace(text)
	})
}

// Clear removes every task. Members and users stay.
func (b *Board) Clear(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.state.Tasks)
	b.state.Tasks = []model.Task{}
	b.logger.Info("board cleared", zap.Int("tasks", n))
	b.persist(ctx)
	return n
}

// Tasks returns a copy of all tasks in board order
func (b *Board) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Task, len(b.state.Tasks))
	copy(out, b.state.Tasks)
	return out
}

// Task returns the task with id
func (b *Board) Task(id string) (model.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.state.FindTask(id)
	if i < 0 {
		return model.Task{}, false
	}
	return b.state.Tasks[i], true
}

// TasksByStatus returns the tasks in one column, in board order
func (b *Board) TasksByStatus(status model.Status) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.Task
	for _, t := range b.state.Tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (b *Board) update(ctx context.Context, id string, fn func(*model.Task)) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updateLocked(ctx, id, fn)
}

func (b *Board) updateLocked(ctx context.Context, id string, fn func(*model.Task)) (model.Task, error) {
	i := b.state.FindTask(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	fn(&b.state.Tasks[i])
	b.persist(ctx)
	return b.state.Tasks[i], nil
}
