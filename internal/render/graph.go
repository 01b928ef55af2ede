package render

import (
	"fmt"
	"regexp"

	"github.com/dshills/snipstorm/internal/trigger"
)

// placeholderRE matches {{name}} and {{name.field}} placeholders.
// Escaped braces (\{\{ ... \}\}) never form a contiguous "{{", so
// they fall through untouched until the final unescape pass.
var placeholderRE = regexp.MustCompile(`\{\{\s*(?P<name>\w+)(?:\.(?P<field>\w+))?\s*\}\}`)

// reference is one parsed placeholder.
type reference struct {
	name  string
	field string
}

// findReferences extracts the placeholder references in a string.
func findReferences(s string) []reference {
	var refs []reference
	for _, m := range placeholderRE.FindAllStringSubmatch(s, -1) {
		refs = append(refs, reference{name: m[1], field: m[2]})
	}
	return refs
}

// node is one variable in the invocation graph arena. Edges are
// stored as index lists into the same arena, which keeps the graph
// free of pointer cycles and makes cycle detection a coloring pass.
type node struct {
	v    *trigger.Variable
	deps []int
}

// graph is the per-render invocation graph.
type graph struct {
	nodes []node
	index map[string]int
}

// buildGraph resolves references between the template's variables and
// the provided globals into an acyclic, index-addressed graph. Body
// references seed additional global nodes so a template can use a
// global without declaring it locally. Resolution order: local
// variables shadow globals of the same name; a local of unresolved
// kind takes its definition from the global. Any reference that names
// neither is rejected immediately.
func buildGraph(vars []trigger.Variable, bodyRefs []reference, lookup Context) (*graph, error) {
	g := &graph{index: make(map[string]int, len(vars))}

	for i := range vars {
		v := &vars[i]
		if v.Kind == trigger.KindUnresolved {
			global, ok := lookup.GlobalVar(v.Name)
			if !ok {
				return nil, &GraphError{Var: v.Name, Err: ErrUnknownReference}
			}
			v = global
		}
		g.index[v.Name] = len(g.nodes)
		g.nodes = append(g.nodes, node{v: v})
	}

	for _, ref := range bodyRefs {
		if _, ok := g.index[ref.name]; ok {
			continue
		}
		global, ok := lookup.GlobalVar(ref.name)
		if !ok {
			return nil, &GraphError{Var: ref.name, Err: ErrUnknownReference}
		}
		g.index[ref.name] = len(g.nodes)
		g.nodes = append(g.nodes, node{v: global})
	}

	// Wire dependencies, pulling in referenced globals as new nodes.
	// The arena grows while we scan it, which naturally walks the
	// globals' own references too.
	for i := 0; i < len(g.nodes); i++ {
		n := &g.nodes[i]
		for _, dep := range dependencyNames(n.v) {
			idx, ok := g.index[dep]
			if !ok {
				global, found := lookup.GlobalVar(dep)
				if !found {
					return nil, &GraphError{Var: n.v.Name, Err: fmt.Errorf("%w: %q", ErrUnknownReference, dep)}
				}
				idx = len(g.nodes)
				g.index[dep] = idx
				g.nodes = append(g.nodes, node{v: global})
				n = &g.nodes[i]
			}
			n.deps = append(n.deps, idx)
		}
	}

	return g, nil
}

// dependencyNames lists the variables a variable must wait for: the
// references inside its string parameters (when injection is on) plus
// any explicit depends-on names.
func dependencyNames(v *trigger.Variable) []string {
	var names []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == v.Name {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if v.InjectParams {
		for _, ref := range paramReferences(v.Params) {
			add(ref.name)
		}
	}
	for _, dep := range v.DependsOn {
		add(dep)
	}
	return names
}

// paramReferences walks a parameter map and collects placeholder
// references inside string values, including nested lists and maps.
func paramReferences(params trigger.Params) []reference {
	var refs []reference
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case string:
			refs = append(refs, findReferences(val)...)
		case []any:
			for _, item := range val {
				walk(item)
			}
		case []string:
			for _, item := range val {
				refs = append(refs, findReferences(item)...)
			}
		case map[string]any:
			for _, item := range val {
				walk(item)
			}
		case trigger.Params:
			for _, item := range val {
				walk(item)
			}
		}
	}
	for _, v := range params {
		walk(v)
	}
	return refs
}

// Colors for the cycle-detection pass.
const (
	colorWhite = iota // unvisited
	colorGray         // on the current path
	colorBlack        // finished
)

// order returns a topological evaluation order. Roots are visited in
// declaration order and dependencies before dependents, so the order
// is deterministic: independent nodes keep their declaration order.
// A cycle aborts with the edge that closed it.
func (g *graph) order() ([]int, error) {
	colors := make([]int, len(g.nodes))
	out := make([]int, 0, len(g.nodes))

	var visit func(i int) error
	visit = func(i int) error {
		switch colors[i] {
		case colorBlack:
			return nil
		case colorGray:
			return &GraphError{Var: g.nodes[i].v.Name, Err: ErrCircularReference}
		}
		colors[i] = colorGray
		for _, dep := range g.nodes[i].deps {
			if colors[dep] == colorGray {
				return &GraphError{
					Var: g.nodes[i].v.Name,
					Err: fmt.Errorf("%w: %q -> %q", ErrCircularReference, g.nodes[i].v.Name, g.nodes[dep].v.Name),
				}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		colors[i] = colorBlack
		out = append(out, i)
		return nil
	}

	for i := range g.nodes {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return out, nil
}
