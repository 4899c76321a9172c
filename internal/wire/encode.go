package wire

import (
	"io"

	"tunelib/internal/library"
)

// Section keys, in the order they are written.
const (
	SectionSongs       = "songs"
	SectionAlbums      = "albums"
	SectionPlaylists   = "playlists"
	SectionRecentPlays = "recentPlays"
)

// EncodeLibrary projects lib into a tree. Albums, playlists, and recent plays
// reference songs by title.
func EncodeLibrary(lib *library.Library) Value {
	songs := make([]Value, 0, lib.SongCount())
	for _, s := range lib.Songs() {
		songs = append(songs, Object(
			Field("title", String(s.Title())),
			Field("artist", String(s.Artist())),
			Field("album", String(s.AlbumTitle())),
			Field("playCount", Int(s.PlayCount())),
			Field("rating", Int(s.Rating())),
			Field("isFavorite", Bool(s.Favorite())),
		))
	}

	albums := make([]Value, 0)
	for _, a := range lib.Albums() {
		albums = append(albums, Object(
			Field("title", String(a.Title)),
			Field("artist", String(a.Artist)),
			Field("genre", String(a.Genre)),
			Field("year", Int(a.Year)),
			Field("songs", titleArray(lib.AlbumSongs(a))),
		))
	}

	playlists := make([]Member, 0)
	for _, p := range lib.Playlists() {
		playlists = append(playlists, Field(p.Name(), Object(
			Field("name", String(p.Name())),
			Field("songs", titleArray(lib.Resolve(p.Songs()))),
		)))
	}

	return Object(
		Field(SectionSongs, Array(songs...)),
		Field(SectionAlbums, Array(albums...)),
		Field(SectionPlaylists, Object(playlists...)),
		Field(SectionRecentPlays, titleArray(lib.RecentPlays())),
	)
}

// MarshalLibrary renders lib in the compact wire format.
func MarshalLibrary(lib *library.Library) []byte {
	return Marshal(EncodeLibrary(lib))
}

// WriteLibrary renders lib to w.
func WriteLibrary(w io.Writer, lib *library.Library) error {
	return Write(w, EncodeLibrary(lib))
}

func titleArray(songs []*library.Song) Value {
	items := make([]Value, 0, len(songs))
	for _, s := range songs {
		items = append(items, String(s.Title()))
	}
	return Array(items...)
}
