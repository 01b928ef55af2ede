package extension

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dshills/snipstorm/internal/trigger"
)

// shellExtension runs the "cmd" parameter through the configured
// shell interpreter and captures standard output. The process
// environment and working directory come from configuration, not from
// the caller. Output is trimmed of trailing whitespace unless the
// "trim" parameter is false.
type shellExtension struct{}

func (shellExtension) evaluate(ctx context.Context, name string, params trigger.Params, cfg Config) (Output, error) {
	cmdline, ok := params.String("cmd")
	if !ok || cmdline == "" {
		return Output{}, wrap(trigger.KindShell, name, fmt.Errorf("%w: %q", ErrMissingParam, "cmd"))
	}

	shell := cfg.Shell
	if override, ok := params.String("shell"); ok && override != "" {
		shell = override
	}

	out, err := runProcess(ctx, cfg, timeoutFor(params, cfg.ShellTimeout), shell, "-c", cmdline)
	if err != nil {
		return Output{}, wrap(trigger.KindShell, name, err)
	}
	return Output{Text: trimIfWanted(params, out)}, nil
}

// scriptExtension spawns the argv in the "args" parameter (interpreter
// first, then the script path and its arguments) and captures
// standard output.
type scriptExtension struct{}

func (scriptExtension) evaluate(ctx context.Context, name string, params trigger.Params, cfg Config) (Output, error) {
	args, ok := params.Strings("args")
	if !ok || len(args) == 0 {
		return Output{}, wrap(trigger.KindScript, name, fmt.Errorf("%w: %q", ErrMissingParam, "args"))
	}

	out, err := runProcess(ctx, cfg, timeoutFor(params, cfg.ScriptTimeout), args[0], args[1:]...)
	if err != nil {
		return Output{}, wrap(trigger.KindScript, name, err)
	}
	return Output{Text: trimIfWanted(params, out)}, nil
}

// timeoutFor honors a per-invocation "timeout" parameter in seconds,
// falling back to the configured default.
func timeoutFor(params trigger.Params, fallback time.Duration) time.Duration {
	if secs, ok := params.Int("timeout"); ok && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// runProcess spawns one bounded process and returns its stdout.
func runProcess(ctx context.Context, cfg Config, timeout time.Duration, bin string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = cfg.WorkingDir
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.String()
			}
			return "", fmt.Errorf("%w: %s", ErrExit, msg)
		}
		return "", fmt.Errorf("spawning %s: %w", bin, err)
	}
	return stdout.String(), nil
}

// trimIfWanted trims trailing whitespace unless trim is disabled.
func trimIfWanted(params trigger.Params, out string) string {
	if trim, ok := params.Bool("trim"); ok && !trim {
		return out
	}
	return strings.TrimRight(out, " \t\r\n")
}
