package main

import (
	"context"
	"fmt"

	"github.com/dori/tablero/internal/app"
	"github.com/spf13/cobra"
)

func newMemberCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage board members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if !a.Board.AddMember(ctx, args[0]) {
					return fmt.Errorf("member %q already exists or is empty", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added member %s\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(_ context.Context, a *app.App) error {
				for _, m := range a.Board.Members() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.Name, m.Color)
				}
				return nil
			})
		},
	})
	return cmd
}

func newRegisterCmd(opts *globalOptions) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a user (also adds them as a member)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				p, err := readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				again, err := readPassword(cmd, "Repeat password: ")
				if err != nil {
					return err
				}
				if p != again {
					return fmt.Errorf("passwords do not match")
				}
				password = p
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Board.Register(ctx, args[0], password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

// newLoginCmd checks a user's credentials. Sessions only live inside the
// interactive board, so nothing is kept afterwards.
func newLoginCmd(opts *globalOptions) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Check a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				p, err := readPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Board.Login(ctx, args[0], password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Credentials for %s are valid\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}
