package extension

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/dshills/snipstorm/internal/trigger"
)

// Default timeouts for kinds that can block.
const (
	DefaultShellTimeout  = 5 * time.Second
	DefaultScriptTimeout = 10 * time.Second
	DefaultLuaTimeout    = 2 * time.Second
)

// Config is the configuration surface the registry consumes. Process
// environment and working directory come from here, never from the
// caller's ambient state, so evaluation stays deterministic and
// sandboxable.
type Config struct {
	// Shell is the interpreter for shell commands. Default /bin/sh.
	Shell string

	// WorkingDir is the working directory for spawned processes.
	// Empty means the process default.
	WorkingDir string

	// Env is the environment for spawned processes, KEY=VALUE form.
	// Nil means inherit the process environment.
	Env []string

	// ShellTimeout bounds one shell invocation.
	ShellTimeout time.Duration

	// ScriptTimeout bounds one script invocation.
	ScriptTimeout time.Duration

	// LuaTimeout bounds one embedded Lua invocation.
	LuaTimeout time.Duration

	// RandomSeed seeds the random extension. Zero seeds from the
	// clock; tests set it for reproducible selections.
	RandomSeed int64

	// Clock supplies the current time to the date extension. Nil
	// means time.Now; tests inject a fixed clock.
	Clock func() time.Time
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Shell == "" {
		c.Shell = "/bin/sh"
	}
	if c.ShellTimeout <= 0 {
		c.ShellTimeout = DefaultShellTimeout
	}
	if c.ScriptTimeout <= 0 {
		c.ScriptTimeout = DefaultScriptTimeout
	}
	if c.LuaTimeout <= 0 {
		c.LuaTimeout = DefaultLuaTimeout
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Output is the result of one evaluation: a text value, plus named
// fields when the extension produced several (referenced from
// templates as {{name.field}}).
type Output struct {
	// Text is the substitution value.
	Text string

	// Fields holds named sub-values, nil for single-valued results.
	Fields map[string]string
}

// Field returns the named sub-value, or the text value for the empty
// name.
func (o Output) Field(name string) (string, bool) {
	if name == "" {
		return o.Text, true
	}
	v, ok := o.Fields[name]
	return v, ok
}

// Scope maps already-evaluated variable names to their outputs. The
// render engine builds it in dependency order and extensions read it
// through resolved parameters.
type Scope map[string]Output

// Registry evaluates template variables through a fixed set of
// extension kinds.
type Registry struct {
	cfg Config

	echo   echoExtension
	date   dateExtension
	random randomExtension
	shell  shellExtension
	script scriptExtension
	lua    luaExtension

	// rng is shared by all random evaluations so a single seed drives
	// the whole run; guarded because renders may run concurrently.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRegistry creates a registry with the given configuration.
func NewRegistry(cfg Config) *Registry {
	cfg = cfg.withDefaults()
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = cfg.Clock().UnixNano()
	}
	return &Registry{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Evaluate runs the extension for the variable with its resolved
// parameters and returns the produced output. The params argument is
// the variable's parameter map after the render engine injected
// dependency outputs; scope holds the outputs themselves.
func (r *Registry) Evaluate(ctx context.Context, v *trigger.Variable, params trigger.Params, scope Scope) (Output, error) {
	switch v.Kind {
	case trigger.KindEcho:
		return r.echo.evaluate(v.Name, params)
	case trigger.KindDate:
		return r.date.evaluate(v.Name, params, r.cfg.Clock)
	case trigger.KindRandom:
		return r.random.evaluate(v.Name, params, r.pick)
	case trigger.KindShell:
		return r.shell.evaluate(ctx, v.Name, params, r.cfg)
	case trigger.KindScript:
		return r.script.evaluate(ctx, v.Name, params, r.cfg)
	case trigger.KindLua:
		return r.lua.evaluate(ctx, v.Name, params, scope, r.cfg)
	default:
		return Output{}, wrap(v.Kind, v.Name, ErrUnsupportedKind)
	}
}

// pick returns a random int in [0, n).
func (r *Registry) pick(n int) int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Intn(n)
}
