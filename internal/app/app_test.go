package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/snipstorm/internal/dispatch"
)

func writeMatches(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "matches.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func startApp(t *testing.T, opts Options) *App {
	t.Helper()
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(a.Shutdown)
	return a
}

func feedString(t *testing.T, a *App, contextID, s string) int {
	t.Helper()
	queued := 0
	for _, r := range s {
		ok, err := a.Feed(contextID, r)
		if err != nil {
			t.Fatalf("Feed() error = %v", err)
		}
		if ok {
			queued++
		}
	}
	return queued
}

func waitResponse(t *testing.T, a *App) dispatch.Response {
	t.Helper()
	select {
	case resp := <-a.Responses():
		return resp
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for expansion")
		return dispatch.Response{}
	}
}

func TestEndToEndExpansion(t *testing.T) {
	path := writeMatches(t, t.TempDir(), `
matches:
  - trigger: ":hi"
    replace: "hello {{who}}"
    vars:
      - name: who
        type: echo
        params:
          echo: "there"
`)
	a := startApp(t, Options{MatchPaths: []string{path}})

	if queued := feedString(t, a, "ctx", "typing :hi"); queued != 1 {
		t.Fatalf("queued = %d, want 1", queued)
	}

	resp := waitResponse(t, a)
	if resp.Err != nil {
		t.Fatalf("Response.Err = %v", resp.Err)
	}
	if !a.Valid(resp) {
		t.Error("Valid() = false for a fresh response")
	}
	if resp.Output.Text != "hello there" {
		t.Errorf("Text = %q, want %q", resp.Output.Text, "hello there")
	}
	if resp.Output.Deletions != 3 {
		t.Errorf("Deletions = %d, want 3", resp.Output.Deletions)
	}
}

func TestResetInvalidatesPendingResponse(t *testing.T) {
	path := writeMatches(t, t.TempDir(), `
matches:
  - trigger: ":x"
    replace: "expanded"
`)
	a := startApp(t, Options{MatchPaths: []string{path}})

	if queued := feedString(t, a, "ctx", ":x"); queued != 1 {
		t.Fatalf("queued = %d, want 1", queued)
	}
	resp := waitResponse(t, a)

	a.Reset("ctx")
	if a.Valid(resp) {
		t.Error("Valid() = true after the context was reset")
	}
}

func TestReloadSwapsTriggers(t *testing.T) {
	dir := t.TempDir()
	path := writeMatches(t, dir, `
matches:
  - trigger: ":old"
    replace: "old"
`)
	a := startApp(t, Options{MatchPaths: []string{path}})

	if err := os.WriteFile(path, []byte(`
matches:
  - trigger: ":new"
    replace: "new"
`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if queued := feedString(t, a, "ctx", ":old"); queued != 0 {
		t.Error(":old still queued after reload")
	}
	if queued := feedString(t, a, "ctx", ":new"); queued != 1 {
		t.Error(":new not queued after reload")
	}
}

func TestReloadFailureKeepsCurrentCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeMatches(t, dir, `
matches:
  - trigger: ":ok"
    replace: "fine"
`)
	a := startApp(t, Options{MatchPaths: []string{path}})

	if err := os.WriteFile(path, []byte("matches: ["), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := a.Reload(); err == nil {
		t.Fatal("Reload() accepted a malformed file")
	}

	// The previous catalog still serves matches.
	if queued := feedString(t, a, "ctx", ":ok"); queued != 1 {
		t.Error("existing trigger lost after failed reload")
	}
}

func TestNewRejectsBadMatchFile(t *testing.T) {
	dir := t.TempDir()
	path := writeMatches(t, dir, "matches: [")

	if _, err := New(Options{MatchPaths: []string{path}}); err == nil {
		t.Error("New() accepted a malformed match file")
	}
}

func TestShutdownTwice(t *testing.T) {
	path := writeMatches(t, t.TempDir(), "matches:\n  - trigger: ':x'\n    replace: y\n")
	a := startApp(t, Options{MatchPaths: []string{path}})
	a.Shutdown()
	a.Shutdown()
}
