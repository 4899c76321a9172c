package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunelib/internal/catalog"
	"tunelib/internal/logging"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and build the album catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogSearchCommand(ctx))
	catalogCmd.AddCommand(newCatalogScanCommand(ctx))
	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every album in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			printCatalogAlbums(cmd.OutOrStdout(), cat.Albums(), "The catalog is empty")
			return nil
		},
	}
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	var by string
	var songs bool
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search catalog albums or songs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			query := args[0]
			out := cmd.OutOrStdout()
			empty := fmt.Sprintf("Nothing in the catalog matches %q", query)
			field := strings.ToLower(strings.TrimSpace(by))

			if songs {
				switch field {
				case "title":
					printTracks(out, cat.SongsByTitle(query), empty)
				case "artist":
					printTracks(out, cat.SongsByArtist(query), empty)
				default:
					return fmt.Errorf("songs can be searched by title or artist, not %q", by)
				}
				return nil
			}

			switch field {
			case "title":
				printCatalogAlbums(out, cat.SearchByTitle(query), empty)
			case "artist":
				printCatalogAlbums(out, cat.SearchByArtist(query), empty)
			case "genre":
				printCatalogAlbums(out, cat.SearchByGenre(query), empty)
			case "year":
				year, err := strconv.Atoi(query)
				if err != nil {
					return fmt.Errorf("year must be a number, got %q", query)
				}
				printCatalogAlbums(out, cat.SearchByYear(year), empty)
			default:
				return fmt.Errorf("unknown search field %q (use title, artist, genre, or year)", by)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "title", "Field to match: title, artist, genre, or year")
	cmd.Flags().BoolVar(&songs, "songs", false, "Search individual songs instead of albums")
	return cmd
}

func newCatalogScanCommand(ctx *commandContext) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Build a catalog from the tags of audio files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Catalog.MusicDir
			if len(args) == 1 {
				root = args[0]
			}
			if strings.TrimSpace(root) == "" {
				return errors.New("no music directory given; pass one or set catalog.music_dir")
			}

			logger := logging.WithContext(cmd.Context(), ctx.loggerValue())
			cat, problems, err := catalog.Scan(cmd.Context(), root, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printCatalogAlbums(out, cat.Albums(), "No tagged audio files found")
			for _, p := range problems {
				fmt.Fprintf(out, "skipped %v\n", p)
			}
			if !write {
				return nil
			}

			skipped, err := catalog.Write(cfg.Catalog.IndexFile, cat)
			if err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			for _, p := range skipped {
				fmt.Fprintf(out, "not written %v\n", p)
			}
			fmt.Fprintf(out, "Wrote %d albums to %s\n", cat.Len()-len(skipped), cfg.Catalog.IndexFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Replace the configured catalog with the scan result")
	return cmd
}
