package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"tunelib/internal/fileutil"
)

// ErrUnrepresentable marks albums whose names cannot be stored in the flat
// format.
var ErrUnrepresentable = errors.New("title, artist, or genre contains a comma or line break")

// Write stores c in the flat format: the index at indexPath and album files
// beside it, replacing files with the same names. Albums that cannot be
// represented are skipped and returned as problems.
func Write(indexPath string, c *Catalog) ([]Problem, error) {
	dir := filepath.Dir(indexPath)
	var (
		index    strings.Builder
		problems []Problem
	)
	for _, a := range c.albums {
		path := filepath.Join(dir, AlbumFileName(a.Title, a.Artist))
		if !representable(a.Title, a.Artist, a.Genre) || strings.ContainsAny(a.Title+a.Artist, `/\`) {
			problems = append(problems, Problem{Path: path, Err: ErrUnrepresentable})
			continue
		}

		var body strings.Builder
		body.WriteString(strings.Join([]string{a.Title, a.Artist, a.Genre, strconv.Itoa(a.Year)}, ","))
		body.WriteByte('\n')
		for _, t := range a.Tracks {
			if !representable(t.Title) {
				continue
			}
			body.WriteString(t.Title)
			body.WriteByte('\n')
		}
		if err := fileutil.WriteFileAtomic(path, []byte(body.String()), 0o644); err != nil {
			return problems, fmt.Errorf("write album %q: %w", a.Title, err)
		}
		index.WriteString(a.Title + "," + a.Artist + "\n")
	}
	if err := fileutil.WriteFileAtomic(indexPath, []byte(index.String()), 0o644); err != nil {
		return problems, fmt.Errorf("write catalog index: %w", err)
	}
	return problems, nil
}

func representable(fields ...string) bool {
	for _, f := range fields {
		if strings.ContainsAny(f, ",\r\n") {
			return false
		}
	}
	return true
}
