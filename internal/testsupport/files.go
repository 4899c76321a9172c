package testsupport

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCatalog writes albums.txt plus one <Title>_<Artist>.txt per album in
// dir. Keys are "Title,Artist"; values are the header's genre and year
// ("Genre,Year") followed by track titles.
func WriteCatalog(t testing.TB, dir string, albums map[string][]string) {
	t.Helper()

	keys := make([]string, 0, len(albums))
	for key := range albums {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var index strings.Builder
	for _, key := range keys {
		lines := albums[key]
		title, artist, _ := strings.Cut(key, ",")
		index.WriteString(key + "\n")

		var body strings.Builder
		body.WriteString(key)
		if len(lines) > 0 {
			body.WriteString("," + lines[0])
			for _, track := range lines[1:] {
				body.WriteString("\n" + track)
			}
		}
		body.WriteString("\n")
		WriteFile(t, filepath.Join(dir, title+"_"+artist+".txt"), body.String())
	}
	WriteFile(t, filepath.Join(dir, "albums.txt"), index.String())
}
