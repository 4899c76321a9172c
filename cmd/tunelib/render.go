package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"tunelib/internal/catalog"
	"tunelib/internal/library"
	"tunelib/internal/wire"
)

func ratingLabel(rating int) string {
	if rating == 0 {
		return "-"
	}
	return strings.Repeat("*", rating)
}

func printSongs(out io.Writer, songs []*library.Song, empty string) {
	if len(songs) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	rows := make([][]string, 0, len(songs))
	for i, s := range songs {
		fav := ""
		if s.Favorite() {
			fav = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Title(),
			s.Artist(),
			s.AlbumTitle(),
			ratingLabel(s.Rating()),
			strconv.Itoa(s.PlayCount()),
			fav,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Title", "Artist", "Album", "Rating", "Plays", "Favorite"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		shouldColorize(out),
	))
}

func printLibraryAlbums(out io.Writer, albums []*library.Album, empty string) {
	if len(albums) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, albumRow(a.AlbumInfo, a.Len()))
	}
	fmt.Fprintln(out, renderTable(albumHeaders, rows, albumAligns, shouldColorize(out)))
}

func printCatalogAlbums(out io.Writer, albums []*catalog.Album, empty string) {
	if len(albums) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, albumRow(a.AlbumInfo, len(a.Tracks)))
	}
	fmt.Fprintln(out, renderTable(albumHeaders, rows, albumAligns, shouldColorize(out)))
}

var (
	albumHeaders = []string{"Title", "Artist", "Genre", "Year", "Tracks"}
	albumAligns  = []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}
)

func albumRow(info library.AlbumInfo, tracks int) []string {
	year := ""
	if info.Year != 0 {
		year = strconv.Itoa(info.Year)
	}
	return []string{info.Title, info.Artist, info.Genre, year, strconv.Itoa(tracks)}
}

func printTracks(out io.Writer, tracks []catalog.Track, empty string) {
	if len(tracks) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{t.Title, t.Artist, t.Album})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Artist", "Album"},
		rows,
		nil,
		shouldColorize(out),
	))
}

func printReport(out io.Writer, report *wire.Report) {
	if report == nil {
		return
	}
	fmt.Fprintf(out, "Loaded %s\n", report.Summary())
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "  - %v\n", issue)
	}
}
