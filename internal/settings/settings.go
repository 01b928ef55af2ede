package settings

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snipstorm/internal/catalog"
	"github.com/dshills/snipstorm/internal/extension"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "SNIPSTORM_"

// Matching configures the incremental matcher.
type Matching struct {
	// RegexWindow is how many trailing characters regex triggers see.
	RegexWindow int `toml:"regex_window"`
}

// Render configures the render path.
type Render struct {
	// ShellTimeoutMS bounds one shell invocation, in milliseconds.
	ShellTimeoutMS int `toml:"shell_timeout_ms"`

	// ScriptTimeoutMS bounds one script invocation, in milliseconds.
	ScriptTimeoutMS int `toml:"script_timeout_ms"`

	// LuaTimeoutMS bounds one lua invocation, in milliseconds.
	LuaTimeoutMS int `toml:"lua_timeout_ms"`

	// Workers is the number of render worker goroutines.
	Workers int `toml:"workers"`

	// QueueSize is the render request queue capacity.
	QueueSize int `toml:"queue_size"`
}

// Shell configures the execution environment of spawned processes.
type Shell struct {
	// Interpreter is the shell binary. Default /bin/sh.
	Interpreter string `toml:"interpreter"`

	// WorkingDir is the working directory for spawned processes.
	WorkingDir string `toml:"working_dir"`

	// Env is the process environment. Empty means inherit.
	Env map[string]string `toml:"env"`
}

// Random configures the random extension.
type Random struct {
	// Seed makes selections reproducible. Zero seeds from the clock.
	Seed int64 `toml:"seed"`
}

// Settings is the full runtime configuration.
type Settings struct {
	Matching Matching `toml:"matching"`
	Render   Render   `toml:"render"`
	Shell    Shell    `toml:"shell"`
	Random   Random   `toml:"random"`
}

// Default returns the built-in configuration.
func Default() Settings {
	return Settings{
		Matching: Matching{RegexWindow: catalog.DefaultRegexWindow},
		Render: Render{
			ShellTimeoutMS:  int(extension.DefaultShellTimeout / time.Millisecond),
			ScriptTimeoutMS: int(extension.DefaultScriptTimeout / time.Millisecond),
			LuaTimeoutMS:    int(extension.DefaultLuaTimeout / time.Millisecond),
			Workers:         2,
			QueueSize:       64,
		},
		Shell: Shell{Interpreter: "/bin/sh"},
	}
}

// Load reads the TOML file at path over the defaults and applies
// environment overrides. A missing file is not an error: defaults
// plus environment apply.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return s, fmt.Errorf("reading settings %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parsing settings %s: %w", path, err)
			}
		}
	}

	s.applyEnv()
	return s, nil
}

// applyEnv overlays recognized SNIPSTORM_* variables.
func (s *Settings) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "SHELL"); ok {
		s.Shell.Interpreter = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "WORKING_DIR"); ok {
		s.Shell.WorkingDir = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "RANDOM_SEED"); ok {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.Random.Seed = seed
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SHELL_TIMEOUT_MS"); ok {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			s.Render.ShellTimeoutMS = ms
		}
	}
}

// ExtensionConfig converts the settings into the registry's
// configuration.
func (s Settings) ExtensionConfig() extension.Config {
	return extension.Config{
		Shell:         s.Shell.Interpreter,
		WorkingDir:    s.Shell.WorkingDir,
		Env:           envList(s.Shell.Env),
		ShellTimeout:  time.Duration(s.Render.ShellTimeoutMS) * time.Millisecond,
		ScriptTimeout: time.Duration(s.Render.ScriptTimeoutMS) * time.Millisecond,
		LuaTimeout:    time.Duration(s.Render.LuaTimeoutMS) * time.Millisecond,
		RandomSeed:    s.Random.Seed,
	}
}

// CatalogOptions converts the settings into catalog build options.
func (s Settings) CatalogOptions() catalog.Options {
	return catalog.Options{RegexWindow: s.Matching.RegexWindow}
}

// envList flattens the env map into KEY=VALUE form, sorted for
// deterministic process spawns.
func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
