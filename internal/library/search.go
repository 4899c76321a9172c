package library

import "tunelib/internal/textutil"

// SearchSongsByTitle returns members whose title matches title, ignoring case.
func (l *Library) SearchSongsByTitle(title string) []*Song {
	return l.filterSongs(func(s *Song) bool { return textutil.EqualFold(s.title, title) })
}

// SearchSongsByArtist returns members whose artist matches artist, ignoring case.
func (l *Library) SearchSongsByArtist(artist string) []*Song {
	return l.filterSongs(func(s *Song) bool { return textutil.EqualFold(s.artist, artist) })
}

// SearchAlbumsByTitle returns albums whose title matches title, ignoring case.
func (l *Library) SearchAlbumsByTitle(title string) []*Album {
	return l.filterAlbums(func(a *Album) bool { return textutil.EqualFold(a.Title, title) })
}

// SearchAlbumsByArtist returns albums whose artist matches artist, ignoring case.
func (l *Library) SearchAlbumsByArtist(artist string) []*Album {
	return l.filterAlbums(func(a *Album) bool { return textutil.EqualFold(a.Artist, artist) })
}

func (l *Library) filterSongs(match func(*Song) bool) []*Song {
	var out []*Song
	for _, s := range l.songs {
		if match(s) {
			out = append(out, s)
		}
	}
	return out
}

func (l *Library) filterAlbums(match func(*Album) bool) []*Album {
	var out []*Album
	for _, a := range l.albums {
		if match(a) {
			out = append(out, a)
		}
	}
	return out
}
