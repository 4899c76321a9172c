package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tunelib/internal/account"
	"tunelib/internal/wire"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Create and edit playlists",
	}
	playlistCmd.AddCommand(newPlaylistCreateCommand(ctx))
	playlistCmd.AddCommand(newPlaylistAddCommand(ctx))
	playlistCmd.AddCommand(newPlaylistRemoveCommand(ctx))
	playlistCmd.AddCommand(newPlaylistShowCommand(ctx))
	playlistCmd.AddCommand(newPlaylistListCommand(ctx))
	return playlistCmd
}

func newPlaylistCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				if err := u.Library.CreatePlaylist(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %s\n", args[0])
				return nil
			})
		},
	}
}

func newPlaylistAddCommand(ctx *commandContext) *cobra.Command {
	var filter songFilter
	cmd := &cobra.Command{
		Use:   "add <playlist> <title>",
		Short: "Append a library song to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				song, err := pickSong(u.Library, args[1], filter)
				if err != nil {
					return err
				}
				if err := u.Library.AddToPlaylist(args[0], song.ID()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", song, args[0])
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newPlaylistRemoveCommand(ctx *commandContext) *cobra.Command {
	var filter songFilter
	cmd := &cobra.Command{
		Use:   "remove <playlist> <title>",
		Short: "Remove the first occurrence of a song from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				song, err := pickSong(u.Library, args[1], filter)
				if err != nil {
					return err
				}
				if err := u.Library.RemoveFromPlaylist(args[0], song.ID()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", song, args[0])
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newPlaylistShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "List the songs of a playlist in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				songs, err := u.Library.PlaylistSongs(args[0])
				if err != nil {
					return err
				}
				printSongs(cmd.OutOrStdout(), songs, fmt.Sprintf("Playlist %s is empty", args[0]))
				return nil
			})
		},
	}
}

func newPlaylistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				out := cmd.OutOrStdout()
				playlists := u.Library.Playlists()
				if len(playlists) == 0 {
					fmt.Fprintln(out, "No playlists yet")
					return nil
				}
				rows := make([][]string, 0, len(playlists))
				for _, p := range playlists {
					rows = append(rows, []string{p.Name(), strconv.Itoa(p.Len())})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Playlist", "Songs"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
					shouldColorize(out),
				))
				return nil
			})
		},
	}
}
