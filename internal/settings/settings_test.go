package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/snipstorm/internal/catalog"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.Matching.RegexWindow != catalog.DefaultRegexWindow {
		t.Errorf("RegexWindow = %d, want %d", s.Matching.RegexWindow, catalog.DefaultRegexWindow)
	}
	if s.Shell.Interpreter != "/bin/sh" {
		t.Errorf("Interpreter = %q, want %q", s.Shell.Interpreter, "/bin/sh")
	}
	if s.Render.Workers != 2 {
		t.Errorf("Workers = %d, want 2", s.Render.Workers)
	}
	if s.Render.QueueSize != 64 {
		t.Errorf("QueueSize = %d, want 64", s.Render.QueueSize)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Shell.Interpreter != "/bin/sh" {
		t.Errorf("Interpreter = %q, want default", s.Shell.Interpreter)
	}
}

func TestLoadTOML(t *testing.T) {
	content := `
[matching]
regex_window = 50

[render]
workers = 4
shell_timeout_ms = 1500

[shell]
interpreter = "/bin/bash"
working_dir = "/tmp"

[shell.env]
LANG = "C"

[random]
seed = 7
`
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Matching.RegexWindow != 50 {
		t.Errorf("RegexWindow = %d, want 50", s.Matching.RegexWindow)
	}
	if s.Render.Workers != 4 {
		t.Errorf("Workers = %d, want 4", s.Render.Workers)
	}
	if s.Shell.Interpreter != "/bin/bash" {
		t.Errorf("Interpreter = %q, want %q", s.Shell.Interpreter, "/bin/bash")
	}
	if s.Random.Seed != 7 {
		t.Errorf("Seed = %d, want 7", s.Random.Seed)
	}
	// Unset fields keep their defaults.
	if s.Render.QueueSize != 64 {
		t.Errorf("QueueSize = %d, want default 64", s.Render.QueueSize)
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"SHELL", "/usr/bin/zsh")
	t.Setenv(EnvPrefix+"RANDOM_SEED", "99")
	t.Setenv(EnvPrefix+"SHELL_TIMEOUT_MS", "250")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Shell.Interpreter != "/usr/bin/zsh" {
		t.Errorf("Interpreter = %q, want %q", s.Shell.Interpreter, "/usr/bin/zsh")
	}
	if s.Random.Seed != 99 {
		t.Errorf("Seed = %d, want 99", s.Random.Seed)
	}
	if s.Render.ShellTimeoutMS != 250 {
		t.Errorf("ShellTimeoutMS = %d, want 250", s.Render.ShellTimeoutMS)
	}
}

func TestExtensionConfig(t *testing.T) {
	s := Default()
	s.Render.ShellTimeoutMS = 2000
	s.Shell.Env = map[string]string{"B": "2", "A": "1"}

	cfg := s.ExtensionConfig()
	if cfg.ShellTimeout != 2*time.Second {
		t.Errorf("ShellTimeout = %v, want %v", cfg.ShellTimeout, 2*time.Second)
	}
	// Sorted for deterministic spawns.
	if len(cfg.Env) != 2 || cfg.Env[0] != "A=1" || cfg.Env[1] != "B=2" {
		t.Errorf("Env = %v, want [A=1 B=2]", cfg.Env)
	}
}

func TestCatalogOptions(t *testing.T) {
	s := Default()
	s.Matching.RegexWindow = 42
	if got := s.CatalogOptions().RegexWindow; got != 42 {
		t.Errorf("RegexWindow = %d, want 42", got)
	}
}
