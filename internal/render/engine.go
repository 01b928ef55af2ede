package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/snipstorm/internal/extension"
	"github.com/dshills/snipstorm/internal/trigger"
)

// Context gives the engine read-only access to catalog-level
// definitions: global variables and the templates of other triggers
// (for nested match rendering). *catalog.Catalog satisfies it.
type Context interface {
	// GlobalVar returns the global variable with the given name.
	GlobalVar(name string) (*trigger.Variable, bool)

	// SubTemplate returns another trigger's template by its literal
	// trigger text.
	SubTemplate(text string) (*trigger.Template, bool)
}

// Warning records a variable that failed under the fallback policy.
// The render still succeeded; the caller decides whether to surface
// the warning.
type Warning struct {
	// Var is the variable that failed.
	Var string

	// Err is the failure.
	Err error
}

// Output is the final result of a render pass.
type Output struct {
	// Text is the replacement text to inject.
	Text string

	// Deletions is how many typed characters to erase first.
	Deletions int

	// Cursor, when non-nil, is how many positions to move the cursor
	// left after Text is inserted. Nil when the body carried no $|$
	// marker.
	Cursor *int

	// Warnings lists fallback-policy failures absorbed during the
	// pass. Empty on a clean render.
	Warnings []Warning
}

// emptyContext backs renders with no catalog lookups.
type emptyContext struct{}

func (emptyContext) GlobalVar(string) (*trigger.Variable, bool)   { return nil, false }
func (emptyContext) SubTemplate(string) (*trigger.Template, bool) { return nil, false }

// Engine renders matched templates through an extension registry.
// Stateless between passes; safe for concurrent use.
type Engine struct {
	registry *extension.Registry
}

// New creates a render engine.
func New(registry *extension.Registry) *Engine {
	return &Engine{registry: registry}
}

// Render evaluates the template for one match event. Graph problems
// and fatal-policy failures return an error and no output; fallback
// failures degrade to empty substitutions recorded as warnings. The
// event's case transform is applied to the final text.
func (e *Engine) Render(ctx context.Context, tmpl *trigger.Template, ev *trigger.MatchEvent, lookup Context) (*Output, error) {
	return e.render(ctx, tmpl, ev, lookup, nil)
}

// render is the recursive body of Render. The visiting set holds the
// templates on the current nested-match path so a template that
// reaches itself again fails instead of recursing forever.
func (e *Engine) render(ctx context.Context, tmpl *trigger.Template, ev *trigger.MatchEvent, lookup Context, visiting map[*trigger.Template]struct{}) (*Output, error) {
	if tmpl == nil {
		return nil, ErrNoTemplate
	}
	if lookup == nil {
		lookup = emptyContext{}
	}
	if visiting == nil {
		visiting = make(map[*trigger.Template]struct{})
	}
	visiting[tmpl] = struct{}{}
	defer delete(visiting, tmpl)

	vars := tmpl.Vars
	if len(ev.Args) > 0 {
		vars = withArgVars(vars, ev.Args)
	}

	out := &Output{Deletions: ev.Deletions()}

	body := tmpl.Body
	if placeholderRE.MatchString(body) || len(vars) > 0 {
		scope, warnings, err := e.evaluate(ctx, body, vars, lookup, visiting)
		if err != nil {
			return nil, err
		}
		out.Warnings = warnings

		body, err = substitute(body, scope)
		if err != nil {
			return nil, err
		}
	}

	body = unescape(body)
	out.Text, out.Cursor = splitCursor(applyCase(body, ev.Case))
	return out, nil
}

// withArgVars prepends the match arguments (regex capture groups) as
// echo variables with parameter injection disabled, so templates can
// reference them like any other variable.
func withArgVars(vars []trigger.Variable, args map[string]string) []trigger.Variable {
	merged := make([]trigger.Variable, 0, len(args)+len(vars))
	for _, name := range sortedKeys(args) {
		merged = append(merged, trigger.Variable{
			Name:   name,
			Kind:   trigger.KindEcho,
			Params: trigger.Params{"echo": args[name]},
		})
	}
	return append(merged, vars...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// evaluate runs the variable graph in dependency order and returns
// the resulting scope.
func (e *Engine) evaluate(ctx context.Context, body string, vars []trigger.Variable, lookup Context, visiting map[*trigger.Template]struct{}) (extension.Scope, []Warning, error) {
	g, err := buildGraph(vars, findReferences(body), lookup)
	if err != nil {
		return nil, nil, err
	}
	order, err := g.order()
	if err != nil {
		return nil, nil, err
	}

	scope := make(extension.Scope, len(order))
	var warnings []Warning

	// Each node appears exactly once in the order, so every variable
	// is evaluated at most once per pass no matter how many
	// downstream nodes reference it.
	for _, idx := range order {
		v := g.nodes[idx].v

		result, nested, evalErr := e.evaluateNode(ctx, v, scope, lookup, visiting)
		warnings = append(warnings, nested...)
		if evalErr != nil {
			// Cycles are definition problems, never downgraded to a
			// fallback warning.
			if v.Policy == trigger.PolicyFallbackEmpty && !errors.Is(evalErr, ErrCircularReference) {
				scope[v.Name] = extension.Output{}
				warnings = append(warnings, Warning{Var: v.Name, Err: evalErr})
				continue
			}
			return nil, nil, &EvalError{Var: v.Name, Err: evalErr}
		}
		scope[v.Name] = result
	}

	return scope, warnings, nil
}

// evaluateNode computes one variable: nested matches render their
// sub-template recursively, everything else goes through the
// extension registry with injected parameters. Warnings from a nested
// render bubble up alongside the result.
func (e *Engine) evaluateNode(ctx context.Context, v *trigger.Variable, scope extension.Scope, lookup Context, visiting map[*trigger.Template]struct{}) (extension.Output, []Warning, error) {
	if v.Kind == trigger.KindMatch {
		text, ok := v.Params.String("trigger")
		if !ok {
			return extension.Output{}, nil, fmt.Errorf("%w: %q", ErrMissingSubTemplate, v.Name)
		}
		sub, ok := lookup.SubTemplate(text)
		if !ok {
			return extension.Output{}, nil, fmt.Errorf("%w: %q", ErrMissingSubTemplate, text)
		}
		if _, ok := visiting[sub]; ok {
			return extension.Output{}, nil, fmt.Errorf("%w: nested match %q", ErrCircularReference, text)
		}
		rendered, err := e.render(ctx, sub, &trigger.MatchEvent{}, lookup, visiting)
		if err != nil {
			return extension.Output{}, nil, err
		}
		return extension.Output{Text: rendered.Text}, rendered.Warnings, nil
	}

	params := v.Params
	if v.InjectParams {
		injected, err := injectParams(params, scope)
		if err != nil {
			return extension.Output{}, nil, err
		}
		params = injected
	}
	out, err := e.registry.Evaluate(ctx, v, params, scope)
	return out, nil, err
}

// injectParams resolves placeholder references inside string
// parameter values against the scope, returning a copy. The graph
// builder already guaranteed every reference is in scope.
func injectParams(params trigger.Params, scope extension.Scope) (trigger.Params, error) {
	out := make(trigger.Params, len(params))
	var err error
	var inject func(v any) any
	inject = func(v any) any {
		switch val := v.(type) {
		case string:
			s, e2 := substitute(val, scope)
			if e2 != nil && err == nil {
				err = e2
			}
			return s
		case []any:
			items := make([]any, len(val))
			for i, item := range val {
				items[i] = inject(item)
			}
			return items
		case []string:
			items := make([]string, len(val))
			for i, item := range val {
				items[i] = inject(item).(string)
			}
			return items
		case map[string]any:
			m := make(map[string]any, len(val))
			for k, item := range val {
				m[k] = inject(item)
			}
			return m
		case trigger.Params:
			m := make(trigger.Params, len(val))
			for k, item := range val {
				m[k] = inject(item)
			}
			return m
		default:
			return v
		}
	}
	for k, v := range params {
		out[k] = inject(v)
	}
	return out, err
}

// substitute replaces every placeholder in s with the matching value
// from the scope. Inserted values are not rescanned, so an output
// that happens to contain placeholder syntax stays literal.
func substitute(s string, scope extension.Scope) (string, error) {
	var missing error
	replaced := placeholderRE.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholderRE.FindStringSubmatch(m)
		name, field := sub[1], sub[2]
		out, ok := scope[name]
		if !ok {
			if missing == nil {
				missing = fmt.Errorf("%w: %q", ErrUnknownReference, name)
			}
			return m
		}
		value, ok := out.Field(field)
		if !ok {
			if missing == nil {
				missing = fmt.Errorf("%w: %q has no field %q", ErrUnknownReference, name, field)
			}
			return m
		}
		return value
	})
	if missing != nil {
		return "", missing
	}
	return replaced, nil
}

// unescape converts escaped brace pairs to literal braces, after all
// substitution is done.
func unescape(s string) string {
	s = strings.ReplaceAll(s, `\{\{`, "{{")
	return strings.ReplaceAll(s, `\}\}`, "}}")
}

const cursorMarker = "$|$"

// splitCursor strips the first cursor marker from the rendered text
// and reports how many characters follow it, which is how far left
// the caller should move the cursor after insertion.
func splitCursor(s string) (string, *int) {
	i := strings.Index(s, cursorMarker)
	if i < 0 {
		return s, nil
	}
	rest := s[i+len(cursorMarker):]
	moves := utf8.RuneCountInString(rest)
	return s[:i] + rest, &moves
}
