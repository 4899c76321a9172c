package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tunelib/internal/account"
	"tunelib/internal/userstore"
)

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account with an empty library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, password, err := ctx.credentials()
			if err != nil {
				return err
			}
			return ctx.withAccounts(func(svc *account.Service) error {
				if _, err := svc.Register(cmd.Context(), name, password); err != nil {
					if errors.Is(err, userstore.ErrUserExists) {
						return fmt.Errorf("user %q already exists", name)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", name)
				return nil
			})
		},
	}
}

func newUsersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store userstore.Store) error {
				names, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(names) == 0 {
					fmt.Fprintln(out, "No users registered")
					return nil
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	}
}

func newUnregisterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Delete your account and library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, password, err := ctx.credentials()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store userstore.Store) error {
				svc := account.NewService(store, ctx.loggerValue())
				if _, _, err := svc.Login(cmd.Context(), name, password); err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
				return nil
			})
		},
	}
}
