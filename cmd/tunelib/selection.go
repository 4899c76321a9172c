package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tunelib/internal/catalog"
	"tunelib/internal/library"
	"tunelib/internal/textutil"
)

var errAmbiguous = errors.New("ambiguous selection")

// songFilter narrows a title lookup by artist and album.
type songFilter struct {
	artist string
	album  string
}

func (f *songFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.artist, "artist", "", "Only match songs by this artist")
	cmd.Flags().StringVar(&f.album, "album", "", "Only match songs on this album")
}

func (f songFilter) match(artist, album string) bool {
	if f.artist != "" && !textutil.EqualFold(artist, f.artist) {
		return false
	}
	if f.album != "" && !textutil.EqualFold(album, f.album) {
		return false
	}
	return true
}

// pickSong finds exactly one library song with the given title.
func pickSong(lib *library.Library, title string, f songFilter) (*library.Song, error) {
	var matches []*library.Song
	for _, s := range lib.SearchSongsByTitle(title) {
		if f.match(s.Artist(), s.AlbumTitle()) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no song titled %q in your library", title)
	case 1:
		return matches[0], nil
	}
	options := make([]string, len(matches))
	for i, s := range matches {
		options[i] = s.String()
	}
	return nil, fmt.Errorf("%w: %q matches %s; narrow it with --artist or --album",
		errAmbiguous, title, strings.Join(options, "; "))
}

// pickTrack finds exactly one catalog track with the given title.
func pickTrack(cat *catalog.Catalog, title string, f songFilter) (catalog.Track, error) {
	var matches []catalog.Track
	for _, t := range cat.SongsByTitle(title) {
		if f.match(t.Artist, t.Album) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return catalog.Track{}, fmt.Errorf("no song titled %q in the catalog", title)
	case 1:
		return matches[0], nil
	}
	options := make([]string, len(matches))
	for i, t := range matches {
		options[i] = fmt.Sprintf("%s by %s (%s)", t.Title, t.Artist, t.Album)
	}
	return catalog.Track{}, fmt.Errorf("%w: %q matches %s; narrow it with --artist or --album",
		errAmbiguous, title, strings.Join(options, "; "))
}

// pickAlbum finds exactly one catalog album with the given title.
func pickAlbum(cat *catalog.Catalog, title, artist string) (*catalog.Album, error) {
	var matches []*catalog.Album
	for _, a := range cat.SearchByTitle(title) {
		if artist == "" || textutil.EqualFold(a.Artist, artist) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no album titled %q in the catalog", title)
	case 1:
		return matches[0], nil
	}
	artists := make([]string, len(matches))
	for i, a := range matches {
		artists[i] = a.Artist
	}
	return nil, fmt.Errorf("%w: album %q exists for %s; narrow it with --artist",
		errAmbiguous, title, strings.Join(artists, ", "))
}
