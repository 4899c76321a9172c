package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tunelib/internal/account"
	"tunelib/internal/logging"
	"tunelib/internal/wire"
)

func newSongsCommand(ctx *commandContext) *cobra.Command {
	var artist string
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List the songs in your library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				songs := u.Library.Songs()
				if artist != "" {
					songs = u.Library.SearchSongsByArtist(artist)
				}
				printSongs(cmd.OutOrStdout(), songs, "No songs in your library")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Only list songs by this artist")
	return cmd
}

func newAlbumsCommand(ctx *commandContext) *cobra.Command {
	var artist string
	cmd := &cobra.Command{
		Use:   "albums",
		Short: "List the albums in your library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				albums := u.Library.Albums()
				if artist != "" {
					albums = u.Library.SearchAlbumsByArtist(artist)
				}
				printLibraryAlbums(cmd.OutOrStdout(), albums, "No albums in your library")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Only list albums by this artist")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var byArtist, albums bool
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search your library by title or artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				out := cmd.OutOrStdout()
				empty := fmt.Sprintf("Nothing in your library matches %q", query)
				switch {
				case albums && byArtist:
					printLibraryAlbums(out, u.Library.SearchAlbumsByArtist(query), empty)
				case albums:
					printLibraryAlbums(out, u.Library.SearchAlbumsByTitle(query), empty)
				case byArtist:
					printSongs(out, u.Library.SearchSongsByArtist(query), empty)
				default:
					printSongs(out, u.Library.SearchSongsByTitle(query), empty)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&byArtist, "artist", false, "Match the artist instead of the title")
	cmd.Flags().BoolVar(&albums, "albums", false, "Search albums instead of songs")
	return cmd
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add songs or albums from the catalog to your library",
	}
	addCmd.AddCommand(newAddSongCommand(ctx))
	addCmd.AddCommand(newAddAlbumCommand(ctx))
	return addCmd
}

func newAddSongCommand(ctx *commandContext) *cobra.Command {
	var filter songFilter
	cmd := &cobra.Command{
		Use:   "song <title>",
		Short: "Add one song from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			track, err := pickTrack(cat, args[0], filter)
			if err != nil {
				return err
			}
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				song, added := u.Library.AddSong(track.Song())
				out := cmd.OutOrStdout()
				if !added {
					fmt.Fprintf(out, "%s is already in your library\n", song)
					return nil
				}
				fmt.Fprintf(out, "Added %s\n", song)
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newAddAlbumCommand(ctx *commandContext) *cobra.Command {
	var artist string
	cmd := &cobra.Command{
		Use:   "album <title>",
		Short: "Add an album and all its songs from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			album, err := pickAlbum(cat, args[0], artist)
			if err != nil {
				return err
			}
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				before := u.Library.SongCount()
				_, added := album.AddTo(u.Library)
				out := cmd.OutOrStdout()
				if !added {
					fmt.Fprintf(out, "%s by %s is already in your library\n", album.Title, album.Artist)
					return nil
				}
				fmt.Fprintf(out, "Added %s by %s (%d new songs)\n",
					album.Title, album.Artist, u.Library.SongCount()-before)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&artist, "artist", "", "Album artist")
	return cmd
}

func newRateCommand(ctx *commandContext) *cobra.Command {
	var filter songFilter
	cmd := &cobra.Command{
		Use:   "rate <title> <1-5>",
		Short: "Rate a song; a 5 also marks it favorite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number from 1 to 5, got %q", args[1])
			}
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				song, err := pickSong(u.Library, args[0], filter)
				if err != nil {
					return err
				}
				if err := u.Library.RateSong(song.ID(), rating); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rated %s %s\n", song, ratingLabel(song.Rating()))
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newFavoriteCommand(ctx *commandContext) *cobra.Command {
	var filter songFilter
	var remove bool
	cmd := &cobra.Command{
		Use:   "favorite <title>",
		Short: "Mark a song as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), true, func(u *account.User, _ *wire.Report) error {
				song, err := pickSong(u.Library, args[0], filter)
				if err != nil {
					return err
				}
				if err := u.Library.SetFavorite(song.ID(), !remove); err != nil {
					return err
				}
				logging.WithContext(cmd.Context(), ctx.loggerValue()).Debug("favorite changed",
					logging.String(logging.FieldUsername, u.Name),
					logging.String("song", song.String()),
					logging.Bool("favorite", song.Favorite()))
				verb := "Marked"
				if remove {
					verb = "Unmarked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s as favorite\n", verb, song)
				return nil
			})
		},
	}
	filter.register(cmd)
	cmd.Flags().BoolVar(&remove, "remove", false, "Clear the favorite flag instead")
	return cmd
}

func newFavoritesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List your favorite songs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withUser(cmd.Context(), false, func(u *account.User, _ *wire.Report) error {
				printSongs(cmd.OutOrStdout(), u.Library.Favorites(), "No favorite songs yet")
				return nil
			})
		},
	}
}
