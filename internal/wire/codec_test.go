package wire_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"tunelib/internal/library"
	"tunelib/internal/wire"
)

func add(t *testing.T, lib *library.Library, title, artist, album string) *library.Song {
	t.Helper()
	s, added := lib.AddSong(library.NewSong(title, artist, album))
	if !added {
		t.Fatalf("AddSong(%q) reported duplicate", title)
	}
	return s
}

func sampleLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib := library.New()
	hello := add(t, lib, "Hello", "Adele", "25")
	water := add(t, lib, "Water Under the Bridge", "Adele", "25")
	tired := add(t, lib, "Tired", "Adele", "19")
	lib.AddAlbum(library.AlbumInfo{Title: "25", Artist: "Adele", Genre: "Pop", Year: 2015},
		library.NewSong("Hello", "Adele", "25"),
		library.NewSong("Water Under the Bridge", "Adele", "25"),
		library.NewSong("Hello", "Adele", "25"),
	)
	if err := lib.RateSong(hello.ID(), 5); err != nil {
		t.Fatalf("RateSong failed: %v", err)
	}
	if err := lib.RateSong(tired.ID(), 3); err != nil {
		t.Fatalf("RateSong failed: %v", err)
	}
	if err := lib.MarkFavorite(water.ID()); err != nil {
		t.Fatalf("MarkFavorite failed: %v", err)
	}
	for _, name := range []string{"Road Trip", "Rainy Day"} {
		if err := lib.CreatePlaylist(name); err != nil {
			t.Fatalf("CreatePlaylist failed: %v", err)
		}
	}
	for _, id := range []library.SongID{tired.ID(), hello.ID(), tired.ID()} {
		if err := lib.AddToPlaylist("Road Trip", id); err != nil {
			t.Fatalf("AddToPlaylist failed: %v", err)
		}
	}
	for _, s := range []*library.Song{hello, water, hello, tired, hello} {
		lib.Play(s.ID())
	}
	return lib
}

func songSignature(s *library.Song) string {
	return fmt.Sprintf("%s|%s|%s|%d|%d|%v", s.Title(), s.Artist(), s.AlbumTitle(), s.PlayCount(), s.Rating(), s.Favorite())
}

func signatures(songs []*library.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = songSignature(s)
	}
	return out
}

func assertSameLibrary(t *testing.T, want, got *library.Library) {
	t.Helper()
	if w, g := signatures(want.Songs()), signatures(got.Songs()); strings.Join(w, "\n") != strings.Join(g, "\n") {
		t.Fatalf("songs differ:\nwant %v\n got %v", w, g)
	}
	wantAlbums, gotAlbums := want.Albums(), got.Albums()
	if len(wantAlbums) != len(gotAlbums) {
		t.Fatalf("album count: want %d got %d", len(wantAlbums), len(gotAlbums))
	}
	for i := range wantAlbums {
		if wantAlbums[i].AlbumInfo != gotAlbums[i].AlbumInfo {
			t.Fatalf("album %d: want %+v got %+v", i, wantAlbums[i].AlbumInfo, gotAlbums[i].AlbumInfo)
		}
		w := signatures(want.AlbumSongs(wantAlbums[i]))
		g := signatures(got.AlbumSongs(gotAlbums[i]))
		if strings.Join(w, "\n") != strings.Join(g, "\n") {
			t.Fatalf("album %d tracks differ:\nwant %v\n got %v", i, w, g)
		}
	}
	wantLists, gotLists := want.Playlists(), got.Playlists()
	if len(wantLists) != len(gotLists) {
		t.Fatalf("playlist count: want %d got %d", len(wantLists), len(gotLists))
	}
	for i := range wantLists {
		if wantLists[i].Name() != gotLists[i].Name() {
			t.Fatalf("playlist %d: want %q got %q", i, wantLists[i].Name(), gotLists[i].Name())
		}
		w := signatures(want.Resolve(wantLists[i].Songs()))
		g := signatures(got.Resolve(gotLists[i].Songs()))
		if strings.Join(w, "\n") != strings.Join(g, "\n") {
			t.Fatalf("playlist %q differs:\nwant %v\n got %v", wantLists[i].Name(), w, g)
		}
	}
	if w, g := signatures(want.RecentPlays()), signatures(got.RecentPlays()); strings.Join(w, "\n") != strings.Join(g, "\n") {
		t.Fatalf("recent plays differ:\nwant %v\n got %v", w, g)
	}
	if w, g := signatures(want.Favorites()), signatures(got.Favorites()); strings.Join(w, "\n") != strings.Join(g, "\n") {
		t.Fatalf("favorites differ:\nwant %v\n got %v", w, g)
	}
}

func TestRoundTrip(t *testing.T) {
	lib := sampleLibrary(t)
	data := wire.MarshalLibrary(lib)

	got, report, err := wire.UnmarshalLibrary(data)
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got %v", report.Issues)
	}
	assertSameLibrary(t, lib, got)

	if again := wire.MarshalLibrary(got); string(again) != string(data) {
		t.Fatalf("re-encoding differs:\nfirst  %s\nsecond %s", data, again)
	}
	if report.Songs != 3 || report.Albums != 1 || report.Playlists != 2 || report.RecentPlays != 3 {
		t.Fatalf("unexpected counts: %s", report.Summary())
	}
}

func TestRoundTripReservedCharacters(t *testing.T) {
	lib := library.New()
	odd := add(t, lib, `Say "Hi", {ok} [now]`, `AC\DC`, `Back:Slash\`)
	if err := lib.CreatePlaylist(`a,"b"}`); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := lib.AddToPlaylist(`a,"b"}`, odd.ID()); err != nil {
		t.Fatalf("AddToPlaylist failed: %v", err)
	}
	lib.Play(odd.ID())

	got, report, err := wire.UnmarshalLibrary(wire.MarshalLibrary(lib))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got %v", report.Issues)
	}
	assertSameLibrary(t, lib, got)
}

func TestRoundTripLatin1Text(t *testing.T) {
	lib := library.New()
	cafe := add(t, lib, "Caf\xe9", "Bj\xf6rk", "D\xe9but")
	second := add(t, lib, "Second", "Other", "Other")
	lib.AddAlbum(library.AlbumInfo{Title: "D\xe9but", Artist: "Bj\xf6rk", Genre: "Pop", Year: 1993},
		library.NewSong("Caf\xe9", "Bj\xf6rk", "D\xe9but"))
	if err := lib.CreatePlaylist("Ma\xf1ana"); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := lib.AddToPlaylist("Ma\xf1ana", cafe.ID()); err != nil {
		t.Fatalf("AddToPlaylist failed: %v", err)
	}
	lib.Play(cafe.ID())
	lib.Play(second.ID())

	if cafe.Title() != "Café" || cafe.Artist() != "Björk" {
		t.Fatalf("expected converted text, got %q by %q", cafe.Title(), cafe.Artist())
	}

	got, report, err := wire.UnmarshalLibrary(wire.MarshalLibrary(lib))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got %v", report.Issues)
	}
	assertSameLibrary(t, lib, got)
	if report.Songs != 2 || report.Albums != 1 || report.Playlists != 1 || report.RecentPlays != 2 {
		t.Fatalf("unexpected counts: %s", report.Summary())
	}
	if got.Album("Début", "Björk") == nil {
		t.Fatal("album lost in round trip")
	}
	songs, err := got.PlaylistSongs("Mañana")
	if err != nil || len(songs) != 1 || songs[0].Title() != "Café" {
		t.Fatalf("playlist lost in round trip: %v (%v)", songs, err)
	}
}

func TestEmptyLibrary(t *testing.T) {
	data := wire.MarshalLibrary(library.New())
	want := `{"songs":[],"albums":[],"playlists":{},"recentPlays":[]}`
	if string(data) != want {
		t.Fatalf("got %s want %s", data, want)
	}
	got, report, err := wire.UnmarshalLibrary(data)
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got %v", report.Issues)
	}
	if got.SongCount() != 0 || len(got.Albums()) != 0 || len(got.Playlists()) != 0 || len(got.RecentPlays()) != 0 {
		t.Fatal("expected empty library")
	}
}

func TestBlankInputIsEmptyLibrary(t *testing.T) {
	lib, report, err := wire.UnmarshalLibrary([]byte("  \n"))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if !report.Clean() || lib.SongCount() != 0 {
		t.Fatal("expected empty library with clean report")
	}
}

func TestTitleAmbiguityResolvesToFirstSong(t *testing.T) {
	lib := library.New()
	add(t, lib, "Echo", "Artist One", "A")
	second := add(t, lib, "Echo", "Artist Two", "B")
	if err := lib.CreatePlaylist("Mix"); err != nil {
		t.Fatalf("CreatePlaylist failed: %v", err)
	}
	if err := lib.AddToPlaylist("Mix", second.ID()); err != nil {
		t.Fatalf("AddToPlaylist failed: %v", err)
	}

	got, _, err := wire.UnmarshalLibrary(wire.MarshalLibrary(lib))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if got.SongCount() != 2 {
		t.Fatalf("expected both songs restored, got %d", got.SongCount())
	}
	songs, err := got.PlaylistSongs("Mix")
	if err != nil {
		t.Fatalf("PlaylistSongs failed: %v", err)
	}
	if len(songs) != 1 || songs[0].Artist() != "Artist One" {
		t.Fatalf("expected playlist to resolve to the first Echo, got %v", songs)
	}
}

func TestDecodeLegacyBlob(t *testing.T) {
	blob := `{"songs":[{"title":"Hello","artist":"Adele","album":"25","playCount":3,"rating":5,"isFavorite":true},` +
		`{"title":"Tired","artist":"Adele","album":"19","playCount":"2","rating":"0","isFavorite":"false"}],` +
		`"albums":[{"title":"25","artist":"Adele","genre":"Pop","year":2015,"songs":["Hello","Missing"]}],` +
		`"playlists":{"Mix":{"name":"Mix","songs":["Tired","Hello"]}},` +
		`"recentPlays":["Tired","Hello","Nope"]}`

	lib, report, err := wire.UnmarshalLibrary([]byte(blob))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if report.Count(wire.IssueUnresolvedReference) != 2 {
		t.Fatalf("expected 2 unresolved references, got %v", report.Issues)
	}
	if report.Err() != nil {
		t.Fatalf("unresolved references must be recoverable: %v", report.Err())
	}

	hello, _ := lib.FirstByTitle("Hello")
	if hello.PlayCount() != 3 || hello.Rating() != 5 || !hello.Favorite() {
		t.Fatalf("unexpected Hello: %s", songSignature(hello))
	}
	tired, _ := lib.FirstByTitle("Tired")
	if tired.PlayCount() != 2 || tired.Rating() != 0 || tired.Favorite() {
		t.Fatalf("unexpected Tired: %s", songSignature(tired))
	}
	album := lib.Album("25", "Adele")
	if album == nil || album.Len() != 1 || album.Year != 2015 {
		t.Fatalf("unexpected album: %+v", album)
	}
	recent := lib.RecentPlays()
	if len(recent) != 2 || recent[0] != tired || recent[1] != hello {
		t.Fatalf("unexpected recent plays: %v", recent)
	}
}

func TestFieldTypeErrorDropsOnlyTheEntry(t *testing.T) {
	blob := `{"songs":[{"title":"A","artist":"X","album":"Y","playCount":abc,"rating":0,"isFavorite":false},` +
		`{"title":"B","artist":"X","album":"Y","playCount":1,"rating":0,"isFavorite":false}],` +
		`"albums":[{"title":"Y","artist":"X","genre":"G","year":"19x9","songs":["B"]},` +
		`{"title":"Z","artist":"X","genre":"G","year":2001,"songs":["B"]}],` +
		`"playlists":{"P":{"name":"P","songs":["A","B"]}},"recentPlays":["B"]}`

	lib, report, err := wire.UnmarshalLibrary([]byte(blob))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if report.Count(wire.IssueFieldType) != 2 {
		t.Fatalf("expected 2 field type issues, got %v", report.Issues)
	}
	if !errors.Is(report.Err(), wire.ErrFieldType) {
		t.Fatalf("expected report error to match ErrFieldType, got %v", report.Err())
	}
	if lib.SongCount() != 1 {
		t.Fatalf("expected only B to load, got %d songs", lib.SongCount())
	}
	if lib.Album("Y", "X") != nil || lib.Album("Z", "X") == nil {
		t.Fatal("expected album Y dropped and album Z kept")
	}
	songs, err := lib.PlaylistSongs("P")
	if err != nil || len(songs) != 1 {
		t.Fatalf("expected playlist with B only, got %v (%v)", songs, err)
	}
	if len(lib.RecentPlays()) != 1 {
		t.Fatal("expected recent plays to load after earlier failures")
	}

	var issue *wire.Issue
	if !errors.As(report.Issues[0], &issue) || issue.Section != wire.SectionSongs || issue.Field != "playCount" {
		t.Fatalf("unexpected first issue: %v", report.Issues[0])
	}
	if issue.ErrorKind() != "field_type" {
		t.Fatalf("unexpected kind: %s", issue.ErrorKind())
	}
}

func TestMissingSectionsAreEmpty(t *testing.T) {
	lib, report, err := wire.UnmarshalLibrary([]byte(`{"songs":[{"title":"A","artist":"X","album":"Y","playCount":0,"rating":0,"isFavorite":false}],"playlists":[]}`))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if lib.SongCount() != 1 {
		t.Fatalf("expected 1 song, got %d", lib.SongCount())
	}
	if report.Count(wire.IssueMissingSection) != 3 {
		t.Fatalf("expected albums, playlists (wrong type), recentPlays reported, got %v", report.Issues)
	}
	if report.Err() != nil {
		t.Fatalf("missing sections must be recoverable: %v", report.Err())
	}
}

func TestTruncatedBlobKeepsCompletedEntries(t *testing.T) {
	full := string(wire.MarshalLibrary(sampleLibrary(t)))
	cut := strings.Index(full, `"albums"`) + 30
	lib, report, err := wire.UnmarshalLibrary([]byte(full[:cut]))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if report.Count(wire.IssueSyntax) != 1 {
		t.Fatalf("expected one syntax issue, got %v", report.Issues)
	}
	if !errors.Is(report.Err(), wire.ErrSyntax) {
		t.Fatalf("expected ErrSyntax in report error, got %v", report.Err())
	}
	if lib.SongCount() != 3 {
		t.Fatalf("expected all songs from the complete section, got %d", lib.SongCount())
	}
	if len(lib.Albums()) != 0 {
		t.Fatal("expected the cut-off album to be dropped")
	}
}

func TestDuplicateSongsReported(t *testing.T) {
	entry := `{"title":"A","artist":"X","album":"Y","playCount":0,"rating":0,"isFavorite":false}`
	lib, report, err := wire.UnmarshalLibrary([]byte(`{"songs":[` + entry + `,` + entry + `],"albums":[],"playlists":{},"recentPlays":[]}`))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if lib.SongCount() != 1 || report.Count(wire.IssueDuplicateEntry) != 1 {
		t.Fatalf("expected one song and one duplicate issue, got %d / %v", lib.SongCount(), report.Issues)
	}
}

func TestIncompleteSongSkipped(t *testing.T) {
	lib, report, err := wire.UnmarshalLibrary([]byte(`{"songs":[{"title":"A","artist":"","album":"Y"},"junk"],"albums":[],"playlists":{},"recentPlays":[]}`))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	if lib.SongCount() != 0 || report.Count(wire.IssueIncompleteEntry) != 2 {
		t.Fatalf("expected both entries skipped, got %d / %v", lib.SongCount(), report.Issues)
	}
}

func TestRecentPlaysRestoredBounded(t *testing.T) {
	var songs, titles []string
	for i := 0; i < 12; i++ {
		title := fmt.Sprintf("S%02d", i)
		songs = append(songs, fmt.Sprintf(`{"title":%q,"artist":"X","album":"Y","playCount":1,"rating":0,"isFavorite":false}`, title))
		titles = append(titles, fmt.Sprintf("%q", title))
	}
	blob := `{"songs":[` + strings.Join(songs, ",") + `],"albums":[],"playlists":{},"recentPlays":[` + strings.Join(titles, ",") + `]}`
	lib, _, err := wire.UnmarshalLibrary([]byte(blob))
	if err != nil {
		t.Fatalf("UnmarshalLibrary failed: %v", err)
	}
	recent := lib.RecentPlays()
	if len(recent) != library.RecentCapacity {
		t.Fatalf("expected %d, got %d", library.RecentCapacity, len(recent))
	}
	if recent[0].Title() != "S00" || recent[9].Title() != "S09" {
		t.Fatalf("expected input order kept, got %s..%s", recent[0].Title(), recent[9].Title())
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	for _, input := range []string{`["songs"]`, `"text"`, `}`} {
		_, _, err := wire.UnmarshalLibrary([]byte(input))
		if !errors.Is(err, wire.ErrNotLibrary) {
			t.Fatalf("%s: expected ErrNotLibrary, got %v", input, err)
		}
	}
}
