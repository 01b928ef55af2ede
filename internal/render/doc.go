// Package render turns a matched template into final output text.
//
// A render pass builds a dependency graph over the template's
// variables (an arena of nodes addressed by index), rejects unknown
// references and cycles before any evaluation, orders the nodes
// topologically with declaration order breaking ties, evaluates each
// node at most once through the extension registry, substitutes the
// outputs into the literal body, and finally applies the case
// transform carried by the match event.
//
// Failure of one variable does not necessarily abort the pass: each
// variable carries a failure policy. Fatal failures and graph
// construction problems abort with no output; fallback failures
// substitute an empty string and attach a warning to the successful
// result. Rendering may block on process-spawning extensions, so
// callers dispatch it off the keystroke thread (see package dispatch).
package render
