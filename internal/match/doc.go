// Package match implements the incremental trigger matcher.
//
// The matcher consumes one character at a time per input context and
// reports, at each keystroke, whether a configured trigger has just
// been completed. Each context owns a bounded rolling buffer of the
// most recently typed characters; the buffer size is derived from the
// catalog (longest literal form, or the regex window).
//
// Feed never blocks and never fails: extension evaluation happens
// later, on the render path, and malformed trigger definitions are
// rejected when the catalog is built. Contexts are independent, so
// separate contexts can be fed concurrently; a single context must be
// fed from one goroutine at a time, which matches keystroke delivery.
package match
