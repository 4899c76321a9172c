package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tunelib/internal/account"
	"tunelib/internal/fileutil"
	"tunelib/internal/library"
	"tunelib/internal/wire"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write your library in its stored text form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				target := strings.TrimSpace(output)
				if target == "" {
					if err := wire.WriteLibrary(cmd.OutOrStdout(), u.Library); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout())
					return nil
				}
				if err := fileutil.WriteFileAtomic(target, wire.MarshalLibrary(u.Library), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d songs to %s\n", u.Library.SongCount(), target)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an exported library into yours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				target := u.Library
				if replace {
					target = library.New()
				}
				report, err := wire.DecodeLibrary(data, target)
				if err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
				u.Library = target
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace your library instead of merging into it")
	return cmd
}
