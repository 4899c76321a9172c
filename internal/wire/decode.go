package wire

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"tunelib/internal/library"
)

// UnmarshalLibrary parses data into a new library.
func UnmarshalLibrary(data []byte) (*library.Library, *Report, error) {
	lib := library.New()
	report, err := DecodeLibrary(data, lib)
	return lib, report, err
}

// DecodeLibrary parses data and applies it to lib. Blank input is an empty
// library. The returned error is non-nil only when nothing in data can be
// read as a library object; every other problem is listed in the report and
// whatever parsed is applied.
func DecodeLibrary(data []byte, lib *library.Library) (*Report, error) {
	report := &Report{}
	if len(bytes.TrimSpace(data)) == 0 {
		return report, nil
	}

	root, err := Parse(data)
	if err != nil {
		if root.Kind != KindObject {
			return report, fmt.Errorf("%w: %w", ErrNotLibrary, err)
		}
		report.add(IssueSyntax, "", "", "", err)
	}
	if root.Kind != KindObject {
		return report, fmt.Errorf("%w: top-level value is %s", ErrNotLibrary, root.Kind)
	}

	applyLibrary(root, lib, report)
	return report, nil
}

// ApplyLibrary applies an already parsed library object to lib.
func ApplyLibrary(root Value, lib *library.Library) *Report {
	report := &Report{}
	if root.Kind != KindObject {
		report.add(IssueMissingSection, "", "", "", fmt.Errorf("expected object, found %s", root.Kind))
		return report
	}
	applyLibrary(root, lib, report)
	return report
}

// applyLibrary loads the sections in dependency order: songs first, since
// every other section resolves titles against them.
func applyLibrary(root Value, lib *library.Library, report *Report) {
	d := &decoder{lib: lib, report: report}
	d.songs(d.section(root, SectionSongs, KindArray))
	d.albums(d.section(root, SectionAlbums, KindArray))
	d.playlists(d.section(root, SectionPlaylists, KindObject))
	d.recentPlays(d.section(root, SectionRecentPlays, KindArray))
}

type decoder struct {
	lib    *library.Library
	report *Report
}

// section returns the named section, or an empty value of the wanted kind
// when it is absent or has the wrong shape.
func (d *decoder) section(root Value, name string, want Kind) Value {
	v, ok := root.Get(name)
	if !ok {
		d.report.add(IssueMissingSection, name, "", "", errors.New("section not present"))
		return Value{Kind: want}
	}
	if v.Kind != want {
		d.report.add(IssueMissingSection, name, "", "", fmt.Errorf("expected %s, found %s", want, v.Kind))
		return Value{Kind: want}
	}
	return v
}

// entry checks that an array or object entry is a complete object.
func (d *decoder) entry(section, entry string, v Value) bool {
	if v.Kind != KindObject {
		d.report.add(IssueIncompleteEntry, section, entry, "", fmt.Errorf("expected object, found %s", v.Kind))
		return false
	}
	if v.Partial {
		d.report.add(IssueIncompleteEntry, section, entry, "", errors.New("entry cut off by syntax error"))
		return false
	}
	return true
}

// text reads a string field; a missing field yields "".
func (d *decoder) text(section, entry string, obj Value, field string) (string, bool) {
	v, ok := obj.Get(field)
	if !ok {
		return "", true
	}
	s, ok := v.Scalar()
	if !ok {
		d.report.add(IssueFieldType, section, entry, field, fmt.Errorf("expected string, found %s", v.Kind))
		return "", false
	}
	return s, true
}

// integer reads an integer field; a missing field yields 0.
func (d *decoder) integer(section, entry string, obj Value, field string) (int, bool) {
	v, ok := obj.Get(field)
	if !ok {
		return 0, true
	}
	n, err := v.AsInt()
	if err != nil {
		d.report.add(IssueFieldType, section, entry, field, err)
		return 0, false
	}
	return n, true
}

// resolve maps an array of titles to member handles by first match. Titles
// with no matching song are dropped.
func (d *decoder) resolve(section, entry string, titles Value) []library.SongID {
	ids := make([]library.SongID, 0, len(titles.Items))
	for _, item := range titles.Items {
		title, ok := item.Scalar()
		if !ok {
			d.report.add(IssueUnresolvedReference, section, entry, "songs", fmt.Errorf("expected title, found %s", item.Kind))
			continue
		}
		song, ok := d.lib.FirstByTitle(title)
		if !ok {
			d.report.add(IssueUnresolvedReference, section, entry, "songs", fmt.Errorf("no song titled %q", title))
			continue
		}
		ids = append(ids, song.ID())
	}
	return ids
}

func (d *decoder) songs(section Value) {
	for i, v := range section.Items {
		entry := strconv.Itoa(i)
		if !d.entry(SectionSongs, entry, v) {
			continue
		}
		title, ok1 := d.text(SectionSongs, entry, v, "title")
		artist, ok2 := d.text(SectionSongs, entry, v, "artist")
		album, ok3 := d.text(SectionSongs, entry, v, "album")
		plays, ok4 := d.integer(SectionSongs, entry, v, "playCount")
		rating, ok5 := d.integer(SectionSongs, entry, v, "rating")
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}
		if title == "" || artist == "" || album == "" {
			d.report.add(IssueIncompleteEntry, SectionSongs, entry, "", errors.New("title, artist, and album are required"))
			continue
		}
		if plays < 0 {
			d.report.add(IssueFieldType, SectionSongs, entry, "playCount", fmt.Errorf("negative play count %d", plays))
			continue
		}

		song, added := d.lib.AddSong(library.NewSong(title, artist, album))
		if !added {
			d.report.add(IssueDuplicateEntry, SectionSongs, entry, "", fmt.Errorf("song %s already loaded", song.Key()))
			continue
		}
		d.lib.RestorePlayCount(song.ID(), plays)
		if rating != 0 {
			if err := d.lib.RateSong(song.ID(), rating); err != nil {
				d.report.add(IssueFieldType, SectionSongs, entry, "rating", err)
			}
		}
		if fv, ok := v.Get("isFavorite"); ok {
			favorite, err := fv.AsBool()
			if err != nil {
				d.report.add(IssueFieldType, SectionSongs, entry, "isFavorite", err)
			} else {
				// song was just added, so SetFavorite cannot fail.
				_ = d.lib.SetFavorite(song.ID(), favorite)
			}
		}
		d.report.Songs++
	}
}

func (d *decoder) albums(section Value) {
	for i, v := range section.Items {
		entry := strconv.Itoa(i)
		if !d.entry(SectionAlbums, entry, v) {
			continue
		}
		title, ok1 := d.text(SectionAlbums, entry, v, "title")
		artist, ok2 := d.text(SectionAlbums, entry, v, "artist")
		genre, ok3 := d.text(SectionAlbums, entry, v, "genre")
		year, ok4 := d.integer(SectionAlbums, entry, v, "year")
		if !(ok1 && ok2 && ok3 && ok4) {
			continue
		}
		if title == "" || artist == "" {
			d.report.add(IssueIncompleteEntry, SectionAlbums, entry, "", errors.New("title and artist are required"))
			continue
		}

		var ids []library.SongID
		if songs, ok := v.Get("songs"); ok {
			if songs.Kind != KindArray {
				d.report.add(IssueFieldType, SectionAlbums, entry, "songs", fmt.Errorf("expected array, found %s", songs.Kind))
				continue
			}
			ids = d.resolve(SectionAlbums, entry, songs)
		}

		info := library.AlbumInfo{Title: title, Artist: artist, Genre: genre, Year: year}
		if _, added := d.lib.AddAlbum(info, d.lib.Resolve(ids)...); !added {
			d.report.add(IssueDuplicateEntry, SectionAlbums, entry, "", fmt.Errorf("album %q by %q already loaded", title, artist))
			continue
		}
		d.report.Albums++
	}
}

func (d *decoder) playlists(section Value) {
	for _, m := range section.Members {
		entry := m.Key
		if !d.entry(SectionPlaylists, entry, m.Value) {
			continue
		}
		name, ok := d.text(SectionPlaylists, entry, m.Value, "name")
		if !ok {
			continue
		}
		if name == "" {
			name = m.Key
		}

		var ids []library.SongID
		if songs, ok := m.Value.Get("songs"); ok {
			if songs.Kind != KindArray {
				d.report.add(IssueFieldType, SectionPlaylists, entry, "songs", fmt.Errorf("expected array, found %s", songs.Kind))
				continue
			}
			ids = d.resolve(SectionPlaylists, entry, songs)
		}

		if err := d.lib.CreatePlaylist(name); err != nil {
			kind := IssueDuplicateEntry
			if errors.Is(err, library.ErrEmptyName) {
				kind = IssueIncompleteEntry
			}
			d.report.add(kind, SectionPlaylists, entry, "name", err)
			continue
		}
		// The playlist was just created and ids are resolved members.
		for _, id := range ids {
			_ = d.lib.AddToPlaylist(name, id)
		}
		d.report.Playlists++
	}
}

func (d *decoder) recentPlays(section Value) {
	ids := d.resolve(SectionRecentPlays, "", section)
	d.lib.RestoreRecency(ids)
	d.report.RecentPlays = len(d.lib.RecentPlays())
}
