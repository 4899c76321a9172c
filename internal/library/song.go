package library

import (
	"fmt"

	"tunelib/internal/textutil"
)

// SongID is a stable handle for a song within one Library. Zero means the
// song has not been added to a library.
type SongID uint32

// Key is the canonical identity of a song.
type Key struct {
	Title  string
	Artist string
	Album  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s / %s / %s", k.Title, k.Artist, k.Album)
}

// Song is a single track. Its mutable state (rating, favorite, play count)
// is changed only through the owning Library.
type Song struct {
	id        SongID
	title     string
	artist    string
	album     string
	rating    int
	favorite  bool
	playCount int
}

// NewSong returns a detached, unrated song with no plays. Text that is not
// valid UTF-8 is converted with textutil.ValidUTF8.
func NewSong(title, artist, albumTitle string) *Song {
	return &Song{
		title:  textutil.ValidUTF8(title),
		artist: textutil.ValidUTF8(artist),
		album:  textutil.ValidUTF8(albumTitle),
	}
}

func (s *Song) ID() SongID         { return s.id }
func (s *Song) Title() string      { return s.title }
func (s *Song) Artist() string     { return s.artist }
func (s *Song) AlbumTitle() string { return s.album }
func (s *Song) Favorite() bool     { return s.favorite }
func (s *Song) PlayCount() int     { return s.playCount }

// Rating returns 1..5, or 0 when the song is unrated.
func (s *Song) Rating() int { return s.rating }

// Key returns the canonical key of the song.
func (s *Song) Key() Key {
	return Key{Title: s.title, Artist: s.artist, Album: s.album}
}

func (s *Song) String() string {
	return fmt.Sprintf("%s by %s (%s)", s.title, s.artist, s.album)
}
