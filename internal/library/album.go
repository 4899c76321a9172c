package library

// AlbumInfo carries the descriptive fields of an album.
type AlbumInfo struct {
	Title  string
	Artist string
	Genre  string
	Year   int
}

// Album is an ordered list of member songs. The same song may appear more
// than once.
type Album struct {
	AlbumInfo
	songs []SongID
}

// Songs returns a copy of the album's song handles in track order.
func (a *Album) Songs() []SongID {
	out := make([]SongID, len(a.songs))
	copy(out, a.songs)
	return out
}

// Len returns the number of tracks.
func (a *Album) Len() int {
	return len(a.songs)
}

type albumKey struct {
	title  string
	artist string
}

func (a *Album) key() albumKey {
	return albumKey{title: a.Title, artist: a.Artist}
}
