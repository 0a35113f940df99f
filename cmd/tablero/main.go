// Command tablero is a terminal task board. With no subcommand it starts the
// interactive board; the subcommands script the same board from a shell.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/tablero/internal/app"
	"github.com/dori/tablero/internal/config"
	"github.com/dori/tablero/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command
type globalOptions struct {
	configPath string
	ephemeral  bool
	theme      string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "tablero",
		Short: "A three column task board for the terminal",
		Long: `tablero keeps a small team board: tasks move from pending to
in progress to done and can be assigned to members.

Run without arguments to open the interactive board. Subcommands act on the
same board for scripting.

Configuration is read from ~/.config/tablero/config.yaml and TABLERO_*
environment variables (for example TABLERO_STORAGE_BACKEND=redis).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/tablero/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep the board in memory only")
	root.Flags().StringVar(&opts.theme, "theme", "", "theme (nord, dracula, gruvbox, catppuccin)")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newMoveCmd(opts),
		newStatusCmd(opts),
		newRemoveCmd(opts),
		newAssignCmd(opts),
		newDueCmd(opts),
		newEditCmd(opts),
		newClearCmd(opts),
		newMemberCmd(opts),
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablero v%s\n", version)
		},
	}
}

// loadConfig reads the configuration and applies the global flags
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	if o.theme != "" {
		cfg.UI.Theme = o.theme
	}
	return cfg, nil
}

// withApp opens the application for the duration of fn
func withApp(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := fn(ctx, application); err != nil {
		return err
	}
	if err := application.Board.LastSaveError(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: changes were not saved: %v\n", err)
	}
	return nil
}

func runTUI(ctx context.Context, opts *globalOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return err
}
