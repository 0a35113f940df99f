package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dori/tablero/internal/app"
	"github.com/dori/tablero/internal/board"
	"github.com/dori/tablero/internal/model"
	"github.com/spf13/cobra"
)

// shortIDLength is how much of a task id list prints and lookups need
const shortIDLength = 8

func newAddCmd(opts *globalOptions) *cobra.Command {
	var assignee string
	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add a pending task",
		Example: `  tablero add "Write release notes"
  tablero add --user ana "Review budget"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := a.Board.CreateTask(ctx, strings.Join(args, " "), assignee)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", shortID(task.ID), task.Text)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&assignee, "user", "u", "", "assign the task to a member")
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks by column",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stages := model.Pipeline
			if status != "" {
				s, ok := model.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				stages = []model.Status{s}
			}
			return withApp(cmd, opts, func(_ context.Context, a *app.App) error {
				return printTasks(cmd.OutOrStdout(), a.Board, stages)
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only show one column (pending, in-progress, done)")
	return cmd
}

func printTasks(out io.Writer, b *board.Board, stages []model.Status) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, s := range stages {
		tasks := b.TasksByStatus(s)
		fmt.Fprintf(w, "%s (%d)\n", s.Label(), len(tasks))
		for _, t := range tasks {
			user := t.User
			if user == "" {
				user = "-"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", shortID(t.ID), t.Text, user, t.Date.Local().Format("2006-01-02 15:04"))
		}
	}
	return w.Flush()
}

func newMoveCmd(opts *globalOptions) *cobra.Command {
	var back bool
	var steps int
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a task to the next column (or back with --back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta := steps
			if back {
				delta = -steps
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := resolveTask(a.Board, args[0])
				if err != nil {
					return err
				}
				task, ok := a.Board.Move(ctx, id, delta)
				if !ok {
					return fmt.Errorf("%w: %s", board.ErrTaskNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(task.ID), task.Status.Label())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&back, "back", "b", false, "move toward pending")
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of columns to move")
	return cmd
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <pending|in-progress|done>",
		Short: "Put a task straight into a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := model.ParseStatus(args[1])
			if !ok {
				status = model.Status(args[1])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := resolveTask(a.Board, args[0])
				if err != nil {
					return err
				}
				task, err := a.Board.SetStatus(ctx, id, status)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(task.ID), task.Status.Label())
				return nil
			})
		},
	}
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := resolveTask(a.Board, args[0])
				if err != nil {
					return err
				}
				task, _ := a.Board.Task(id)
				if !yes {
					ok, err := confirm(cmd, fmt.Sprintf("Delete '%s'?", task.Text))
					if err != nil || !ok {
						return err
					}
				}
				if err := a.Board.DeleteTask(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newAssignCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> [member]",
		Short: "Assign a task to a member, or unassign it",
		Long:  "Assign a task to a member. A name not seen before becomes a new member. Leave the member out to unassign.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			member := ""
			if len(args) == 2 {
				member = args[1]
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := resolveTask(a.Board, args[0])
				if err != nil {
					return err
				}
				task, err := a.Board.Reassign(ctx, id, member)
				if err != nil {
					return err
				}
				if task.User == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s unassigned\n", shortID(task.ID))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s assigned to %s\n", shortID(task.ID), task.User)
				}
				return nil
			})
		},
	}
}

func newDueCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <date>",
		Short: "Set a task's date",
		Example: `  tablero due 3f2a tomorrow
  tablero due 3f2a friday
  tablero due 3f2a 2024-05-01T09:30`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := resolveTask(a.Board, args[0])
				if err != nil {
					return err
				}
				task, err := a.Board.Reschedule(ctx, id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s due %s\n", shortID(task.ID), task.Date.Local().Format("Mon, Jan 2 2006 15:04"))
				return nil
			})
		},
	}
}

func newEditCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				id, err := resolveTask(a.Board, args[0])
				if err != nil {
					return err
				}
				task, err := a.Board.EditText(ctx, id, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", shortID(task.ID), task.Text)
				return nil
			})
		},
	}
}

func newClearCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task (members and users stay)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if !yes {
					ok, err := confirm(cmd, "Clear the whole board? This cannot be undone.")
					if err != nil || !ok {
						return err
					}
				}
				n := a.Board.Clear(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d tasks\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// resolveTask finds the task whose id is ref or starts with ref
func resolveTask(b *board.Board, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", board.ErrTaskNotFound)
	}
	if _, ok := b.Task(ref); ok {
		return ref, nil
	}

	var matches []string
	for _, t := range b.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", board.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id %q matches %d tasks, use more characters", ref, len(matches))
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
