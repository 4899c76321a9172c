package main

import (
	"strings"
	"testing"
)

func TestLogsShowsSessionLines(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Logging.Level = "info"
	env.cfg.Logging.Format = "json"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, env, "logs")
	if err != nil {
		t.Fatalf("logs before any activity: %v", err)
	}
	if strings.Contains(out, "user registered") {
		t.Fatalf("unexpected log lines:\n%s", out)
	}

	mustRunAs(t, env, "alice", "register")

	out, _, err = runCLI(t, env, "logs", "--grep", "user registered")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, `"username":"alice"`)
	requireContains(t, out, `"session_id":"`)

	out, _, err = runCLI(t, env, "logs", "--session", "no-such-session")
	if err != nil {
		t.Fatalf("logs --session: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no lines for unknown session, got:\n%s", out)
	}
}
