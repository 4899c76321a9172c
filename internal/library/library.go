package library

import (
	"fmt"
	"strings"

	"tunelib/internal/textutil"
)

// Library is the in-memory snapshot of one user's songs, albums, playlists,
// favorites, and recent plays.
type Library struct {
	songs   []*Song
	byID    map[SongID]*Song
	byKey   map[Key]*Song
	byTitle map[string]SongID
	nextID  SongID

	albums    []*Album
	albumKeys map[albumKey]*Album

	playlists []*Playlist
	byName    map[string]*Playlist

	favorites map[SongID]struct{}
	recent    []SongID
}

// New returns an empty library.
func New() *Library {
	return &Library{
		byID:      make(map[SongID]*Song),
		byKey:     make(map[Key]*Song),
		byTitle:   make(map[string]SongID),
		albumKeys: make(map[albumKey]*Album),
		byName:    make(map[string]*Playlist),
		favorites: make(map[SongID]struct{}),
	}
}

// AddSong inserts s and assigns its handle. When a song with the same
// canonical key is already a member, the existing member is returned with
// added=false and s is left untouched. A song that belongs to another
// library is copied rather than shared.
func (l *Library) AddSong(s *Song) (member *Song, added bool) {
	if s == nil {
		return nil, false
	}
	if s.id != 0 && l.byID[s.id] == s {
		return s, false
	}
	if existing, ok := l.byKey[s.Key()]; ok {
		return existing, false
	}

	favorite := s.favorite
	if s.id != 0 {
		s = &Song{title: s.title, artist: s.artist, album: s.album, rating: s.rating, playCount: s.playCount}
	}
	s.favorite = false

	l.nextID++
	s.id = l.nextID
	l.songs = append(l.songs, s)
	l.byID[s.id] = s
	l.byKey[s.Key()] = s
	if _, taken := l.byTitle[s.title]; !taken {
		l.byTitle[s.title] = s.id
	}
	if favorite {
		l.setFavorite(s, true)
	}
	return s, true
}

// Song returns the member with the given handle, or nil.
func (l *Library) Song(id SongID) *Song {
	return l.byID[id]
}

// Contains reports whether id names a member song.
func (l *Library) Contains(id SongID) bool {
	_, ok := l.byID[id]
	return ok
}

// Lookup returns the member with the given canonical key.
func (l *Library) Lookup(key Key) (*Song, bool) {
	s, ok := l.byKey[key]
	return s, ok
}

// FirstByTitle returns the earliest-inserted member whose title equals title
// exactly. This is how title references in persisted data are resolved.
func (l *Library) FirstByTitle(title string) (*Song, bool) {
	id, ok := l.byTitle[title]
	if !ok {
		return nil, false
	}
	return l.byID[id], true
}

// Songs returns all members in insertion order.
func (l *Library) Songs() []*Song {
	out := make([]*Song, len(l.songs))
	copy(out, l.songs)
	return out
}

// SongCount returns the number of member songs.
func (l *Library) SongCount() int {
	return len(l.songs)
}

// Resolve maps handles to member songs, skipping handles that are not
// members.
func (l *Library) Resolve(ids []SongID) []*Song {
	out := make([]*Song, 0, len(ids))
	for _, id := range ids {
		if s, ok := l.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// AddAlbum records an album and adds each track through AddSong, reusing
// members that already exist. Albums are unique by title and artist; adding
// a duplicate returns the existing album with added=false and adds nothing.
func (l *Library) AddAlbum(info AlbumInfo, tracks ...*Song) (album *Album, added bool) {
	info.Title = textutil.ValidUTF8(info.Title)
	info.Artist = textutil.ValidUTF8(info.Artist)
	info.Genre = textutil.ValidUTF8(info.Genre)
	candidate := &Album{AlbumInfo: info}
	if existing, ok := l.albumKeys[candidate.key()]; ok {
		return existing, false
	}
	for _, track := range tracks {
		member, _ := l.AddSong(track)
		if member == nil {
			continue
		}
		candidate.songs = append(candidate.songs, member.id)
	}
	l.albums = append(l.albums, candidate)
	l.albumKeys[candidate.key()] = candidate
	return candidate, true
}

// Album returns the album with the given title and artist, or nil.
func (l *Library) Album(title, artist string) *Album {
	return l.albumKeys[albumKey{title: textutil.ValidUTF8(title), artist: textutil.ValidUTF8(artist)}]
}

// Albums returns all albums in insertion order.
func (l *Library) Albums() []*Album {
	out := make([]*Album, len(l.albums))
	copy(out, l.albums)
	return out
}

// AlbumSongs returns the tracks of a in order.
func (l *Library) AlbumSongs(a *Album) []*Song {
	if a == nil {
		return nil
	}
	return l.Resolve(a.songs)
}

// CreatePlaylist adds an empty playlist.
func (l *Library) CreatePlaylist(name string) error {
	name = textutil.ValidUTF8(name)
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if _, ok := l.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrPlaylistExists, name)
	}
	p := &Playlist{name: name}
	l.playlists = append(l.playlists, p)
	l.byName[name] = p
	return nil
}

// Playlist returns the named playlist, or nil.
func (l *Library) Playlist(name string) *Playlist {
	return l.byName[textutil.ValidUTF8(name)]
}

// Playlists returns all playlists in creation order.
func (l *Library) Playlists() []*Playlist {
	out := make([]*Playlist, len(l.playlists))
	copy(out, l.playlists)
	return out
}

// PlaylistSongs returns the songs of the named playlist in order.
func (l *Library) PlaylistSongs(name string) ([]*Song, error) {
	p, ok := l.byName[textutil.ValidUTF8(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlaylistNotFound, name)
	}
	return l.Resolve(p.songs), nil
}

// AddToPlaylist appends a member song to the named playlist.
func (l *Library) AddToPlaylist(name string, id SongID) error {
	p, ok := l.byName[textutil.ValidUTF8(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlaylistNotFound, name)
	}
	if !l.Contains(id) {
		return ErrUnknownSong
	}
	p.add(id)
	return nil
}

// RemoveFromPlaylist removes the first occurrence of id from the named
// playlist.
func (l *Library) RemoveFromPlaylist(name string, id SongID) error {
	p, ok := l.byName[textutil.ValidUTF8(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlaylistNotFound, name)
	}
	if !p.remove(id) {
		return fmt.Errorf("%w: not in playlist %q", ErrUnknownSong, name)
	}
	return nil
}

// RateSong sets a rating of 1..5. Any other value is rejected and the
// rating is left unchanged. A rating of 5 also marks the song favorite.
func (l *Library) RateSong(id SongID, rating int) error {
	s, ok := l.byID[id]
	if !ok {
		return ErrUnknownSong
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	s.rating = rating
	if rating == 5 {
		l.setFavorite(s, true)
	}
	return nil
}

// MarkFavorite marks a member song as a favorite.
func (l *Library) MarkFavorite(id SongID) error {
	return l.SetFavorite(id, true)
}

// SetFavorite sets or clears the favorite flag of a member song.
func (l *Library) SetFavorite(id SongID, favorite bool) error {
	s, ok := l.byID[id]
	if !ok {
		return ErrUnknownSong
	}
	l.setFavorite(s, favorite)
	return nil
}

// setFavorite is the only place a song's favorite flag changes.
func (l *Library) setFavorite(s *Song, favorite bool) {
	s.favorite = favorite
	if favorite {
		l.favorites[s.id] = struct{}{}
		return
	}
	delete(l.favorites, s.id)
}

// Favorites returns favorite songs in insertion order.
func (l *Library) Favorites() []*Song {
	out := make([]*Song, 0, len(l.favorites))
	for _, s := range l.songs {
		if _, ok := l.favorites[s.id]; ok {
			out = append(out, s)
		}
	}
	return out
}
