package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dori/tablero/internal/app"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the board as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app.App) error {
				data, err := a.Board.Export()
				if err != nil {
					return err
				}
				if len(args) == 0 || args[0] == "-" {
					_, err = cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if err := os.WriteFile(args[0], data, 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
				return nil
			})
		},
	}
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with an exported file",
		Long: `Replace the board with an exported file. Older exports are accepted too:
a plain task list replaces tasks and members, a column map replaces only
the tasks. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if !yes && args[0] != "-" {
					ok, err := confirm(cmd, "Importing replaces the current board. Continue?")
					if err != nil || !ok {
						return err
					}
				}
				format, err := a.Board.Import(ctx, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks (%s format)\n", len(a.Board.Tasks()), format)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on the command's input
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := readLine(cmd.InOrStdin())
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	return false, nil
}

// readPassword reads a password without echo when stdin is a terminal and
// falls back to a plain line otherwise
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(p), nil
	}
	return readLine(cmd.InOrStdin())
}

// readLine reads up to the next newline one byte at a time so that
// consecutive prompts on the same reader do not lose buffered input
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}
