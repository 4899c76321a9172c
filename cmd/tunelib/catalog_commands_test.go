package main

import (
	"strings"
	"testing"
)

func TestCatalogSearch(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "Abbey Road")
	requireContains(t, out, "Covers")

	cases := []struct {
		args []string
		want string
		not  string
	}{
		{args: []string{"abbey road"}, want: "The Beatles", not: "Joni Mitchell"},
		{args: []string{"folk", "--by", "genre"}, want: "Blue", not: "Help"},
		{args: []string{"1965", "--by", "year"}, want: "Help", not: "Abbey Road"},
		{args: []string{"the beatles", "--by", "artist"}, want: "Help", not: "Covers"},
		{args: []string{"yesterday", "--songs"}, want: "Various", not: "California"},
		{args: []string{"joni mitchell", "--songs", "--by", "artist"}, want: "All I Want", not: "Yesterday"},
	}
	for _, tc := range cases {
		args := append([]string{"catalog", "search"}, tc.args...)
		out, _, err := runCLI(t, env, args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		requireContains(t, out, tc.want)
		if strings.Contains(out, tc.not) {
			t.Fatalf("%v: unexpected %q in:\n%s", tc.args, tc.not, out)
		}
	}

	if _, _, err := runCLI(t, env, "catalog", "search", "x", "--by", "label"); err == nil {
		t.Fatal("expected unknown field to fail")
	}
	if _, _, err := runCLI(t, env, "catalog", "search", "soon", "--by", "year"); err == nil {
		t.Fatal("expected non-numeric year to fail")
	}
}

func TestCatalogScanWithoutMusicDir(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "catalog", "scan"); err == nil {
		t.Fatal("expected scan without a directory to fail")
	}
}

func TestCatalogScanWrite(t *testing.T) {
	env := setupCLITestEnv(t)
	music := t.TempDir()

	out, _, err := runCLI(t, env, "catalog", "scan", music, "--write")
	if err != nil {
		t.Fatalf("catalog scan: %v", err)
	}
	requireContains(t, out, "No tagged audio files found")
	requireContains(t, out, "Wrote 0 albums")

	out, _, err = runCLI(t, env, "catalog", "list")
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "The catalog is empty")
}
