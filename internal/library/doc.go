// Package library holds the in-memory snapshot of a user's music library and
// the playback tracker that runs over it.
//
// A Library owns its songs: every member gets a stable SongID handle when it
// is added, and albums, playlists, and the recency list refer to songs by
// handle only. Songs are unique by their canonical Key (title, artist,
// album). The favorite flag of a song is only ever changed through
// SetFavorite (RateSong with 5 delegates to it), so Favorites always matches
// the flags on the songs.
//
// A Library is not safe for concurrent use. Callers that save or load a
// snapshot must hold exclusive access for the duration of the operation.
package library
