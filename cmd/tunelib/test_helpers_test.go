package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tunelib/internal/config"
	"tunelib/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

var testCatalog = map[string][]string{
	"Abbey Road,The Beatles": {"Rock,1969", "Come Together", "Something", "Here Comes the Sun"},
	"Help,The Beatles":       {"Rock,1965", "Help", "Yesterday"},
	"Blue,Joni Mitchell":     {"Folk,1971", "All I Want", "California"},
	"Covers,Various":         {"Pop,2001", "Something", "Yesterday"},
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithCatalog(testCatalog)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	t.Setenv("HOME", filepath.Join(testsupport.BaseDir(cfg), "home"))
	t.Setenv("TUNELIB_USER", "")
	t.Setenv("TUNELIB_PASSWORD", "")

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runAs runs a command with credentials for user, whose password is
// always "<user>-pw".
func runAs(t *testing.T, env *cliTestEnv, user string, args ...string) (string, error) {
	t.Helper()

	full := append([]string{"--user", user, "--password", user + "-pw"}, args...)
	out, _, err := runCLI(t, env, full...)
	return out, err
}

func mustRunAs(t *testing.T, env *cliTestEnv, user string, args ...string) string {
	t.Helper()

	out, err := runAs(t, env, user, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func requireContains(t *testing.T, output, substring string) {
	t.Helper()
	if !strings.Contains(output, substring) {
		t.Fatalf("expected output to contain %q, got:\n%s", substring, output)
	}
}

func requireOrder(t *testing.T, output string, first, second string) {
	t.Helper()
	i, j := strings.Index(output, first), strings.Index(output, second)
	if i < 0 || j < 0 || i > j {
		t.Fatalf("expected %q before %q in:\n%s", first, second, output)
	}
}
