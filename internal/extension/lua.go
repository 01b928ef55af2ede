package extension

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/snipstorm/internal/trigger"
	lua "github.com/yuin/gopher-lua"
)

// luaExtension runs a Lua snippet in a fresh, sandboxed state and
// returns the value of the global "output" (or the script's return
// value). The "script" parameter holds inline source; "file" names a
// script on disk instead.
//
// Each evaluation gets its own LState: gopher-lua states are not
// goroutine-safe and concurrent render passes must not share
// evaluation state. Only the base, table, string, and math libraries
// are opened; io, os, debug, and package stay closed, and the code
// loading globals are removed.
type luaExtension struct{}

func (luaExtension) evaluate(ctx context.Context, name string, params trigger.Params, scope Scope, cfg Config) (Output, error) {
	source, inline := params.String("script")
	path, fromFile := params.String("file")
	if !inline && !fromFile {
		return Output{}, wrap(trigger.KindLua, name, fmt.Errorf("%w: %q or %q", ErrMissingParam, "script", "file"))
	}
	if fromFile {
		data, err := os.ReadFile(path)
		if err != nil {
			return Output{}, wrap(trigger.KindLua, name, fmt.Errorf("reading script: %w", err))
		}
		source = string(data)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(params, cfg.LuaTimeout))
	defer cancel()

	L := newSandboxedState()
	defer L.Close()
	L.SetContext(ctx)

	// Expose already-resolved variable outputs as a read-only-by-
	// convention table.
	vars := L.NewTable()
	for dep, out := range scope {
		L.SetField(vars, dep, lua.LString(out.Text))
	}
	L.SetGlobal("vars", vars)

	if err := L.DoString(source); err != nil {
		if ctx.Err() != nil {
			return Output{}, wrap(trigger.KindLua, name, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err()))
		}
		return Output{}, wrap(trigger.KindLua, name, err)
	}

	if out := L.GetGlobal("output"); out != lua.LNil {
		return Output{Text: lua.LVAsString(out)}, nil
	}
	if top := L.Get(-1); top != lua.LNil {
		return Output{Text: lua.LVAsString(top)}, nil
	}
	return Output{}, nil
}

// newSandboxedState creates an LState with only safe libraries open
// and the code-loading globals removed.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, and package are intentionally never opened.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
