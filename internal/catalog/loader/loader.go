// Package loader parses on-disk match files into trigger definitions
// the catalog can build from.
//
// Match files are YAML (the native format) or JSON. The loader is the
// only place the engine touches the file format: everything past it
// works on the in-memory model. Malformed definitions fail here, at
// load time, never during matching.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/snipstorm/internal/trigger"
)

// Result is the parsed content of one or more match files, in
// declaration order.
type Result struct {
	// Triggers are the parsed trigger definitions with ids assigned.
	Triggers []*trigger.Trigger

	// Globals are the global variables shared by all templates.
	Globals []trigger.Variable
}

// Load parses the given match files, assigning trigger ids in file
// and declaration order. The extension picks the format: .yml/.yaml
// or .json.
func Load(paths ...string) (*Result, error) {
	res := &Result{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading match file: %w", err)
		}

		var file *fileContent
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
			file, err = parseYAML(data)
		case ".json":
			file, err = parseJSON(data)
		default:
			err = fmt.Errorf("unsupported match file format %q", filepath.Ext(path))
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}

		if err := res.append(file); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}
	return res, nil
}

// fileContent is the format-independent shape of one match file.
type fileContent struct {
	matches []matchDef
	globals []varDef
}

// matchDef is one trigger definition before conversion.
type matchDef struct {
	trigger         string
	triggers        []string
	regex           string
	replace         string
	word            bool
	leftWord        bool
	rightWord       bool
	propagateCase   bool
	caseInsensitive bool
	uppercaseStyle  string
	priority        int
	label           string
	vars            []varDef
}

// varDef is one variable definition before conversion.
type varDef struct {
	name      string
	kind      string
	params    map[string]any
	inject    *bool
	dependsOn []string
	policy    string
}

// append converts a parsed file into the result, assigning ids.
func (r *Result) append(file *fileContent) error {
	for i := range file.matches {
		m := &file.matches[i]
		vars, err := convertVars(m.vars)
		if err != nil {
			return err
		}
		t := &trigger.Trigger{
			ID:              len(r.Triggers),
			Regex:           m.regex,
			Boundary:        boundaryOf(m),
			CaseInsensitive: m.caseInsensitive,
			PropagateCase:   m.propagateCase,
			Style:           styleOf(m.uppercaseStyle),
			Priority:        m.priority,
			Label:           m.label,
			Template: &trigger.Template{
				Body: m.replace,
				Vars: vars,
			},
		}
		if m.trigger != "" {
			t.Triggers = []string{m.trigger}
		}
		t.Triggers = append(t.Triggers, m.triggers...)
		r.Triggers = append(r.Triggers, t)
	}
	globals, err := convertVars(file.globals)
	if err != nil {
		return err
	}
	r.Globals = append(r.Globals, globals...)
	return nil
}

func boundaryOf(m *matchDef) trigger.WordBoundary {
	switch {
	case m.word, m.leftWord && m.rightWord:
		return trigger.BoundaryBoth
	case m.leftWord:
		return trigger.BoundaryLeft
	case m.rightWord:
		return trigger.BoundaryRight
	default:
		return trigger.BoundaryNone
	}
}

func styleOf(name string) trigger.UppercaseStyle {
	switch name {
	case "capitalize":
		return trigger.StyleCapitalize
	case "capitalize_words":
		return trigger.StyleCapitalizeWords
	default:
		return trigger.StyleUppercase
	}
}

func convertVars(defs []varDef) ([]trigger.Variable, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	vars := make([]trigger.Variable, 0, len(defs))
	for _, d := range defs {
		kind := trigger.KindUnresolved
		if d.kind != "" {
			parsed, ok := trigger.ParseKind(d.kind)
			if !ok {
				return nil, fmt.Errorf("variable %q: %w: %q", d.name, ErrUnknownKind, d.kind)
			}
			kind = parsed
		}
		v := trigger.Variable{
			Name:         d.name,
			Kind:         kind,
			Params:       trigger.Params(d.params),
			InjectParams: true,
			DependsOn:    d.dependsOn,
			Policy:       trigger.DefaultPolicy(kind),
		}
		if d.inject != nil {
			v.InjectParams = *d.inject
		}
		switch d.policy {
		case "":
		case "fatal":
			v.Policy = trigger.PolicyFatal
		case "fallback_empty":
			v.Policy = trigger.PolicyFallbackEmpty
		default:
			return nil, fmt.Errorf("variable %q: %w: %q", d.name, ErrUnknownPolicy, d.policy)
		}
		vars = append(vars, v)
	}
	return vars, nil
}
