package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunelib/internal/account"
	"tunelib/internal/logging"
	"tunelib/internal/wire"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var filter songFilter
	cmd := &cobra.Command{
		Use:   "play <title>",
		Short: "Record a play of a song in your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				song, err := pickSong(u.Library, args[0], filter)
				if err != nil {
					return err
				}
				u.Library.Play(song.ID())
				logging.WithContext(cmd.Context(), ctx.loggerValue()).Debug("song played",
					logging.String(logging.FieldUsername, u.Name),
					logging.String("song", song.String()),
					logging.Int("play_count", song.PlayCount()),
					logging.Bool("favorite", song.Favorite()))
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (%d plays)\n", song, song.PlayCount())
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newRecentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently played songs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				printSongs(cmd.OutOrStdout(), u.Library.RecentPlays(), "Nothing played yet")
				return nil
			})
		},
	}
}

func newFrequentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "frequent",
		Short: "List your most played songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				printSongs(cmd.OutOrStdout(), u.Library.FrequentPlays(), "No songs in your library")
				return nil
			})
		},
	}
}
