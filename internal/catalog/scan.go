package catalog

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dhowden/tag"

	"tunelib/internal/logging"
	"tunelib/internal/textutil"
)

const (
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
)

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".m4b":  {},
	".flac": {},
	".ogg":  {},
	".dsf":  {},
}

// Scan walks root and builds a catalog from the tags of every audio file.
// Files whose tags cannot be read still contribute a track named after the
// file. Tracks are grouped by album and album artist and ordered by disc and
// track number.
func Scan(ctx context.Context, root string, logger *slog.Logger) (*Catalog, []Problem, error) {
	logger = logging.NewComponentLogger(logger, "catalog")
	if info, err := os.Stat(root); err != nil {
		return New(), nil, fmt.Errorf("scan music directory: %w", err)
	} else if !info.IsDir() {
		return New(), nil, fmt.Errorf("scan music directory: %s is not a directory", root)
	}
	cat := New()
	var problems []Problem
	genres := make(map[*Album]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			problems = append(problems, Problem{Path: path, Err: walkErr})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		track, info, err := readTrack(path)
		if err != nil {
			problems = append(problems, Problem{Path: path, Err: err})
			logger.Debug("tag read failed; using file name", logging.String("path", path), logging.Error(err))
		}

		album := cat.Album(track.Album, info.Artist)
		if album == nil {
			album = &Album{}
			album.Title, album.Artist = track.Album, info.Artist
			cat.Add(album)
		}
		if album.Year == 0 {
			album.Year = info.Year
		}
		if !genres[album] && info.Genre != "" {
			album.Genre = info.Genre
			genres[album] = true
		}
		album.Tracks = append(album.Tracks, track)
		return nil
	})
	if err != nil {
		return cat, problems, err
	}

	for _, album := range cat.albums {
		slices.SortStableFunc(album.Tracks, func(a, b Track) int {
			return cmp.Or(cmp.Compare(a.Disc, b.Disc), cmp.Compare(a.Number, b.Number))
		})
	}
	logger.Info("catalog scan complete",
		logging.String("root", root),
		logging.Int("albums", cat.Len()),
		logging.Int("problems", len(problems)),
	)
	return cat, problems, nil
}

// readTrack returns the track for path with fallbacks applied. The album
// info carries the album artist, year, and genre from the tags. A non-nil
// error means the tags were unreadable and only fallbacks were used.
func readTrack(path string) (Track, Album, error) {
	var (
		track Track
		info  Album
	)
	readErr := func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		m, err := tag.ReadFrom(f)
		if err != nil {
			return err
		}
		track.Title = strings.TrimSpace(m.Title())
		track.Artist = strings.TrimSpace(m.Artist())
		track.Album = strings.TrimSpace(m.Album())
		track.Number, _ = m.Track()
		track.Disc, _ = m.Disc()
		info.Artist = strings.TrimSpace(m.AlbumArtist())
		info.Year = m.Year()
		info.Genre = strings.TrimSpace(m.Genre())
		return nil
	}()

	if track.Title == "" {
		track.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for _, field := range []*string{&track.Title, &track.Artist, &track.Album, &info.Artist, &info.Genre} {
		*field = textutil.ValidUTF8(*field)
	}
	if track.Artist == "" {
		track.Artist = unknownArtist
	}
	if track.Album == "" {
		track.Album = unknownAlbum
	}
	if info.Artist == "" {
		info.Artist = track.Artist
	}
	return track, info, readErr
}
