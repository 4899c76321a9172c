package catalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tunelib/internal/textutil"
)

// IndexFileName is the default index file inside a catalog directory.
const IndexFileName = "albums.txt"

var (
	ErrMalformedIndex  = errors.New("index line must be \"Album Title,Artist\"")
	ErrMalformedHeader = errors.New("album header must be \"Title,Artist,Genre,Year\"")
	ErrDuplicateAlbum  = errors.New("album listed more than once")
)

// AlbumFileName returns the catalog file name for an album.
func AlbumFileName(title, artist string) string {
	return title + "_" + artist + ".txt"
}

// Load reads the catalog described by indexPath. Album files are resolved
// next to the index. Malformed lines and unreadable album files are
// returned as problems and skipped; the error is non-nil only when the index
// itself cannot be read or ctx is cancelled.
func Load(ctx context.Context, indexPath string) (*Catalog, []Problem, error) {
	file, err := os.Open(indexPath)
	if err != nil {
		return New(), nil, fmt.Errorf("open catalog index: %w", err)
	}
	defer file.Close()

	dir := filepath.Dir(indexPath)
	cat := New()
	var problems []Problem

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return cat, problems, err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		parts := strings.Split(text, ",")
		if len(parts) != 2 {
			problems = append(problems, Problem{Path: indexPath, Line: line, Err: ErrMalformedIndex})
			continue
		}
		title, artist := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		albumPath := filepath.Join(dir, AlbumFileName(title, artist))
		album, err := loadAlbum(albumPath)
		if err != nil {
			problems = append(problems, asProblem(albumPath, err))
			continue
		}
		if !cat.Add(album) {
			problems = append(problems, Problem{Path: indexPath, Line: line, Err: ErrDuplicateAlbum})
		}
	}
	if err := scanner.Err(); err != nil {
		return cat, problems, fmt.Errorf("read catalog index: %w", err)
	}
	return cat, problems, nil
}

// LoadDir loads the catalog whose index is dir/albums.txt.
func LoadDir(ctx context.Context, dir string) (*Catalog, []Problem, error) {
	return Load(ctx, filepath.Join(dir, IndexFileName))
}

func loadAlbum(path string) (*Album, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, Problem{Path: path, Line: 1, Err: ErrMalformedHeader}
	}
	album, err := parseHeader(textutil.ValidUTF8(scanner.Text()))
	if err != nil {
		return nil, Problem{Path: path, Line: 1, Err: err}
	}

	number := 0
	for scanner.Scan() {
		title := strings.TrimSpace(textutil.ValidUTF8(scanner.Text()))
		if title == "" {
			continue
		}
		number++
		album.Tracks = append(album.Tracks, Track{
			Title:  title,
			Artist: album.Artist,
			Album:  album.Title,
			Number: number,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return album, nil
}

func parseHeader(header string) (*Album, error) {
	parts := strings.Split(header, ",")
	if len(parts) != 4 {
		return nil, ErrMalformedHeader
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformedHeader
	}
	year, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: year %q", ErrMalformedHeader, parts[3])
	}
	album := &Album{}
	album.Title, album.Artist, album.Genre, album.Year = parts[0], parts[1], parts[2], year
	return album, nil
}

func asProblem(path string, err error) Problem {
	var p Problem
	if errors.As(err, &p) {
		return p
	}
	return Problem{Path: path, Err: err}
}
