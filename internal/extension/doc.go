// Package extension implements the dynamic content generators usable
// inside templates: echo, date, random, shell, script, and lua.
//
// The set of kinds is closed. Dispatch is a switch over the variable
// kind, not a plugin lookup; adding a kind is a deliberate code
// change. Extensions are stateless apart from injected configuration
// (timeouts, process environment, random seed, clock), so concurrent
// render passes never share evaluation state.
//
// Kinds that spawn processes or run scripts honor a per-invocation
// timeout and report failures as *Error values; the render engine
// decides, per invocation, whether a failure aborts the pass or
// degrades to an empty substitution.
package extension
