package library

import "errors"

var (
	// ErrUnknownSong is returned when a handle does not name a member song.
	ErrUnknownSong = errors.New("song is not in the library")
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrPlaylistNotFound is returned when no playlist has the given name.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrPlaylistExists is returned when a playlist name is already taken.
	ErrPlaylistExists = errors.New("playlist already exists")
	// ErrEmptyName is returned when a playlist name is blank.
	ErrEmptyName = errors.New("playlist name cannot be empty")
)
