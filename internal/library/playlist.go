package library

// Playlist is a named, ordered list of member songs. Duplicates are allowed.
type Playlist struct {
	name  string
	songs []SongID
}

// Name returns the playlist's unique name.
func (p *Playlist) Name() string {
	return p.name
}

// Songs returns a copy of the playlist's song handles in order.
func (p *Playlist) Songs() []SongID {
	out := make([]SongID, len(p.songs))
	copy(out, p.songs)
	return out
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	return len(p.songs)
}

func (p *Playlist) add(id SongID) {
	p.songs = append(p.songs, id)
}

// remove drops the first occurrence of id. It reports whether anything was
// removed.
func (p *Playlist) remove(id SongID) bool {
	for i, existing := range p.songs {
		if existing == id {
			p.songs = append(p.songs[:i], p.songs[i+1:]...)
			return true
		}
	}
	return false
}
