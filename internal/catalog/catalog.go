package catalog

import (
	"fmt"

	"tunelib/internal/library"
	"tunelib/internal/textutil"
)

// Track is one catalog entry. Catalog tracks are plain values; Song builds a
// detached library song from one.
type Track struct {
	Title  string
	Artist string
	Album  string
	Number int
	Disc   int
}

// Song returns a new detached song for t.
func (t Track) Song() *library.Song {
	return library.NewSong(t.Title, t.Artist, t.Album)
}

// Album is a catalog album and its tracks in order.
type Album struct {
	library.AlbumInfo
	Tracks []Track
}

// Songs returns detached songs for every track.
func (a *Album) Songs() []*library.Song {
	out := make([]*library.Song, len(a.Tracks))
	for i, t := range a.Tracks {
		out[i] = t.Song()
	}
	return out
}

// AddTo records a and its tracks in lib.
func (a *Album) AddTo(lib *library.Library) (*library.Album, bool) {
	return lib.AddAlbum(a.AlbumInfo, a.Songs()...)
}

// Problem is a catalog entry that could not be loaded.
type Problem struct {
	Path string
	Line int
	Err  error
}

func (p Problem) Error() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", p.Path, p.Line, p.Err)
	}
	return fmt.Sprintf("%s: %v", p.Path, p.Err)
}

func (p Problem) Unwrap() error { return p.Err }

type albumKey struct{ title, artist string }

// Catalog is an ordered, de-duplicated set of albums.
type Catalog struct {
	albums []*Album
	byKey  map[albumKey]*Album
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byKey: make(map[albumKey]*Album)}
}

// Add inserts a, reporting false when an album with the same title and
// artist is already present.
func (c *Catalog) Add(a *Album) bool {
	key := albumKey{a.Title, a.Artist}
	if _, ok := c.byKey[key]; ok {
		return false
	}
	c.byKey[key] = a
	c.albums = append(c.albums, a)
	return true
}

// Len returns the number of albums.
func (c *Catalog) Len() int { return len(c.albums) }

// Albums returns every album in load order.
func (c *Catalog) Albums() []*Album {
	return append([]*Album(nil), c.albums...)
}

// Album returns the album with the exact title and artist, or nil.
func (c *Catalog) Album(title, artist string) *Album {
	return c.byKey[albumKey{title, artist}]
}

// SearchByTitle returns albums whose title matches, ignoring case.
func (c *Catalog) SearchByTitle(title string) []*Album {
	return c.filter(func(a *Album) bool { return textutil.EqualFold(a.Title, title) })
}

// SearchByArtist returns albums whose artist matches, ignoring case.
func (c *Catalog) SearchByArtist(artist string) []*Album {
	return c.filter(func(a *Album) bool { return textutil.EqualFold(a.Artist, artist) })
}

// SearchByGenre returns albums whose genre matches, ignoring case.
func (c *Catalog) SearchByGenre(genre string) []*Album {
	return c.filter(func(a *Album) bool { return textutil.EqualFold(a.Genre, genre) })
}

// SearchByYear returns albums released in year.
func (c *Catalog) SearchByYear(year int) []*Album {
	return c.filter(func(a *Album) bool { return a.Year == year })
}

// SongsByTitle returns tracks whose title matches, ignoring case.
func (c *Catalog) SongsByTitle(title string) []Track {
	return c.tracks(func(t Track) bool { return textutil.EqualFold(t.Title, title) })
}

// SongsByArtist returns tracks whose artist matches, ignoring case.
func (c *Catalog) SongsByArtist(artist string) []Track {
	return c.tracks(func(t Track) bool { return textutil.EqualFold(t.Artist, artist) })
}

func (c *Catalog) filter(match func(*Album) bool) []*Album {
	var out []*Album
	for _, a := range c.albums {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) tracks(match func(Track) bool) []Track {
	var out []Track
	for _, a := range c.albums {
		for _, t := range a.Tracks {
			if match(t) {
				out = append(out, t)
			}
		}
	}
	return out
}
