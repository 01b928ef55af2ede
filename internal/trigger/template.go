package trigger

// Kind identifies the extension backing a template variable. The set
// is closed: adding a kind is a code change, not configuration.
type Kind int

const (
	// KindUnresolved marks a variable satisfied by a global variable
	// of the same name at render time.
	KindUnresolved Kind = iota

	// KindEcho returns a literal parameter verbatim.
	KindEcho

	// KindDate formats the current date/time.
	KindDate

	// KindRandom selects uniformly from a list of choices.
	KindRandom

	// KindShell runs a shell command and captures its output.
	KindShell

	// KindScript runs an external script and captures its output.
	KindScript

	// KindLua runs an embedded Lua script in a sandboxed state.
	KindLua

	// KindMatch renders another trigger's template, referenced by its
	// trigger text, and uses the result as the variable value.
	KindMatch
)

var kindNames = map[Kind]string{
	KindUnresolved: "unresolved",
	KindEcho:       "echo",
	KindDate:       "date",
	KindRandom:     "random",
	KindShell:      "shell",
	KindScript:     "script",
	KindLua:        "lua",
	KindMatch:      "match",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a kind name from a match file into a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindUnresolved, false
}

// FailurePolicy decides what an evaluation failure of one variable
// does to the enclosing render pass.
type FailurePolicy int

const (
	// PolicyFatal aborts the whole render. Default for pure kinds.
	PolicyFatal FailurePolicy = iota

	// PolicyFallbackEmpty substitutes an empty string, records a
	// warning on the output, and continues. Default for kinds that
	// spawn external processes.
	PolicyFallbackEmpty
)

// String returns the policy name.
func (p FailurePolicy) String() string {
	if p == PolicyFallbackEmpty {
		return "fallback_empty"
	}
	return "fatal"
}

// DefaultPolicy returns the failure policy a kind carries unless the
// match file overrides it.
func DefaultPolicy(k Kind) FailurePolicy {
	switch k {
	case KindShell, KindScript, KindLua:
		return PolicyFallbackEmpty
	default:
		return PolicyFatal
	}
}

// Params holds the named parameters of a template variable. Values
// are the plain Go shapes the loaders produce: string, bool, int64,
// float64, []any, map[string]any.
type Params map[string]any

// String returns the named parameter as a string.
func (p Params) String(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

// Bool returns the named parameter as a bool.
func (p Params) Bool(name string) (bool, bool) {
	v, ok := p[name].(bool)
	return v, ok
}

// Int returns the named parameter as an int64, converting the numeric
// shapes the loaders produce.
func (p Params) Int(name string) (int64, bool) {
	switch v := p[name].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Strings returns the named parameter as a string slice.
func (p Params) Strings(name string) ([]string, bool) {
	switch v := p[name].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy of the parameter map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Variable is one extension invocation inside a template. Its output
// is substituted for {{name}} placeholders in the template body and
// may be referenced by the parameters of later variables.
type Variable struct {
	// Name is the output name. Must be unique within the template.
	Name string

	// Kind selects the extension that computes the value.
	Kind Kind

	// Params are the extension parameters.
	Params Params

	// InjectParams enables resolving {{ref}} placeholders inside
	// string parameter values against earlier variable outputs.
	// Loaders default this to true.
	InjectParams bool

	// DependsOn adds explicit ordering edges beyond the ones implied
	// by parameter references.
	DependsOn []string

	// Policy is the failure policy for this invocation.
	Policy FailurePolicy
}

// Template is the replacement content of a trigger: a literal body
// with {{name}} placeholders and the variables that fill them.
type Template struct {
	// Body is the literal skeleton. Placeholders use {{name}} or
	// {{name.key}} syntax; \{\{ escapes a literal brace pair.
	Body string

	// Vars are the extension invocations, in declaration order.
	Vars []Variable
}
