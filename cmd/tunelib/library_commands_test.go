package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tunelib/internal/account"
	"tunelib/internal/config"
	"tunelib/internal/library"
	"tunelib/internal/testsupport"
	"tunelib/internal/wire"
)

func TestRegisterAndCredentials(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunAs(t, env, "alice", "register")
	requireContains(t, out, "Registered alice")

	if _, err := runAs(t, env, "alice", "register"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate registration to fail, got %v", err)
	}

	_, _, err := runCLI(t, env, "--user", "alice", "--password", "wrong", "songs")
	if !errors.Is(err, account.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := runAs(t, env, "nobody", "songs"); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
	if _, _, err := runCLI(t, env, "songs"); err == nil {
		t.Fatal("expected missing credentials to fail")
	}

	t.Setenv("TUNELIB_USER", "alice")
	t.Setenv("TUNELIB_PASSWORD", "alice-pw")
	out, _, err = runCLI(t, env, "songs")
	if err != nil {
		t.Fatalf("songs with env credentials: %v", err)
	}
	requireContains(t, out, "No songs in your library")
}

func TestPlaybackPersistsAcrossInvocations(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			env := setupCLITestEnv(t, testsupport.WithBackend(backend))
			mustRunAs(t, env, "alice", "register")

			out := mustRunAs(t, env, "alice", "add", "album", "Abbey Road")
			requireContains(t, out, "Added Abbey Road by The Beatles (3 new songs)")

			mustRunAs(t, env, "alice", "play", "Come Together")
			mustRunAs(t, env, "alice", "play", "come together")
			out = mustRunAs(t, env, "alice", "play", "Something")
			requireContains(t, out, "(1 plays)")

			recent := mustRunAs(t, env, "alice", "recent")
			requireOrder(t, recent, "Something", "Come Together")
			if strings.Contains(recent, "Here Comes the Sun") {
				t.Fatalf("unplayed song listed as recent:\n%s", recent)
			}

			frequent := mustRunAs(t, env, "alice", "frequent")
			requireOrder(t, frequent, "Come Together", "Something")
			requireOrder(t, frequent, "Something", "Here Comes the Sun")

			albums := mustRunAs(t, env, "alice", "albums")
			requireContains(t, albums, "Abbey Road")
			requireContains(t, albums, "1969")
		})
	}
}

func TestAddSongFromCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunAs(t, env, "alice", "register")

	if _, err := runAs(t, env, "alice", "add", "song", "Something"); !errors.Is(err, errAmbiguous) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	out := mustRunAs(t, env, "alice", "add", "song", "Something", "--artist", "Various")
	requireContains(t, out, "Added Something by Various (Covers)")

	out = mustRunAs(t, env, "alice", "add", "song", "Something", "--album", "Covers")
	requireContains(t, out, "already in your library")

	if _, err := runAs(t, env, "alice", "add", "song", "Imagine"); err == nil {
		t.Fatal("expected missing catalog song to fail")
	}

	mustRunAs(t, env, "alice", "add", "album", "Abbey Road", "--artist", "The Beatles")
	if _, err := runAs(t, env, "alice", "play", "Something"); !errors.Is(err, errAmbiguous) {
		t.Fatalf("expected library ambiguity, got %v", err)
	}
	mustRunAs(t, env, "alice", "play", "Something", "--artist", "The Beatles")

	songs := mustRunAs(t, env, "alice", "songs", "--artist", "various")
	requireContains(t, songs, "Covers")
	if strings.Contains(songs, "Abbey Road") {
		t.Fatalf("artist filter leaked other songs:\n%s", songs)
	}
}

func TestRateAndFavorites(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunAs(t, env, "alice", "register")
	mustRunAs(t, env, "alice", "add", "album", "Help")

	if _, err := runAs(t, env, "alice", "rate", "Help", "7"); !errors.Is(err, library.ErrInvalidRating) {
		t.Fatalf("expected invalid rating, got %v", err)
	}
	if _, err := runAs(t, env, "alice", "rate", "Help", "five"); err == nil {
		t.Fatal("expected non-numeric rating to fail")
	}

	mustRunAs(t, env, "alice", "rate", "Help", "3")
	out := mustRunAs(t, env, "alice", "favorites")
	requireContains(t, out, "No favorite songs yet")

	mustRunAs(t, env, "alice", "rate", "Yesterday", "5")
	out = mustRunAs(t, env, "alice", "favorites")
	requireContains(t, out, "Yesterday")
	requireContains(t, out, "*****")

	mustRunAs(t, env, "alice", "favorite", "Help")
	out = mustRunAs(t, env, "alice", "favorites")
	requireOrder(t, out, "Help", "Yesterday")

	mustRunAs(t, env, "alice", "favorite", "Yesterday", "--remove")
	out = mustRunAs(t, env, "alice", "favorites")
	if strings.Contains(out, "Yesterday") {
		t.Fatalf("expected Yesterday to be unmarked:\n%s", out)
	}
}

func TestPlaylistCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunAs(t, env, "alice", "register")
	mustRunAs(t, env, "alice", "add", "album", "Blue")

	mustRunAs(t, env, "alice", "playlist", "create", "Road Trip")
	if _, err := runAs(t, env, "alice", "playlist", "create", "Road Trip"); !errors.Is(err, library.ErrPlaylistExists) {
		t.Fatalf("expected duplicate playlist error, got %v", err)
	}

	mustRunAs(t, env, "alice", "playlist", "add", "Road Trip", "California")
	mustRunAs(t, env, "alice", "playlist", "add", "Road Trip", "All I Want")
	mustRunAs(t, env, "alice", "playlist", "add", "Road Trip", "California")

	out := mustRunAs(t, env, "alice", "playlist", "show", "Road Trip")
	requireOrder(t, out, "California", "All I Want")

	mustRunAs(t, env, "alice", "playlist", "remove", "Road Trip", "California")
	out = mustRunAs(t, env, "alice", "playlist", "show", "Road Trip")
	requireOrder(t, out, "All I Want", "California")

	out = mustRunAs(t, env, "alice", "playlist", "list")
	requireContains(t, out, "Road Trip")

	if _, err := runAs(t, env, "alice", "playlist", "add", "Nope", "California"); !errors.Is(err, library.ErrPlaylistNotFound) {
		t.Fatalf("expected missing playlist error, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunAs(t, env, "alice", "register")
	mustRunAs(t, env, "alice", "add", "album", "Help")
	mustRunAs(t, env, "alice", "add", "album", "Blue")

	out := mustRunAs(t, env, "alice", "search", "yesterday")
	requireContains(t, out, "Yesterday")

	out = mustRunAs(t, env, "alice", "search", "joni mitchell", "--artist")
	requireContains(t, out, "California")
	if strings.Contains(out, "Help") {
		t.Fatalf("unexpected Beatles song in artist search:\n%s", out)
	}

	out = mustRunAs(t, env, "alice", "search", "BLUE", "--albums")
	requireContains(t, out, "Folk")

	out = mustRunAs(t, env, "alice", "search", "Imagine")
	requireContains(t, out, `Nothing in your library matches "Imagine"`)
}

func TestExportImport(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunAs(t, env, "alice", "register")
	mustRunAs(t, env, "alice", "add", "album", "Help")
	mustRunAs(t, env, "alice", "play", "Yesterday")
	mustRunAs(t, env, "alice", "playlist", "create", "Mix")
	mustRunAs(t, env, "alice", "playlist", "add", "Mix", "Help")

	out := mustRunAs(t, env, "alice", "export")
	requireContains(t, out, `"recentPlays"`)
	requireContains(t, out, `"Yesterday"`)

	exported := filepath.Join(t.TempDir(), "alice.txt")
	mustRunAs(t, env, "alice", "export", "--output", exported)

	mustRunAs(t, env, "bob", "register")
	out = mustRunAs(t, env, "bob", "import", exported)
	requireContains(t, out, "2 songs, 1 albums, 1 playlists, 1 recent plays, 0 issues")

	out = mustRunAs(t, env, "bob", "recent")
	requireContains(t, out, "Yesterday")
	out = mustRunAs(t, env, "bob", "playlist", "show", "Mix")
	requireContains(t, out, "Help")

	garbage := filepath.Join(t.TempDir(), "garbage.txt")
	if err := os.WriteFile(garbage, []byte("[1, 2, 3]"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if _, err := runAs(t, env, "bob", "import", garbage); !errors.Is(err, wire.ErrNotLibrary) {
		t.Fatalf("expected not-a-library error, got %v", err)
	}
	out = mustRunAs(t, env, "bob", "songs")
	requireContains(t, out, "Yesterday")

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	mustRunAs(t, env, "bob", "import", empty, "--replace")
	out = mustRunAs(t, env, "bob", "songs")
	requireContains(t, out, "No songs in your library")
}

func TestUsersAndUnregister(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	requireContains(t, out, "No users registered")

	mustRunAs(t, env, "alice", "register")
	mustRunAs(t, env, "bob", "register")
	out, _, err = runCLI(t, env, "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	requireOrder(t, out, "alice", "bob")

	if _, _, err := runCLI(t, env, "--user", "bob", "--password", "nope", "unregister"); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Fatalf("expected unregister to require the password, got %v", err)
	}
	mustRunAs(t, env, "bob", "unregister")
	out, _, err = runCLI(t, env, "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if strings.Contains(out, "bob") {
		t.Fatalf("bob still listed:\n%s", out)
	}
}
