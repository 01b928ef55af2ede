// Package trigger defines the shared data model for the expansion
// engine: triggers, templates, template variables, and the match
// events produced when a trigger completes.
//
// Everything in this package is immutable once constructed. Triggers
// and templates are built by the catalog loader at startup (or on an
// explicit reload) and are only ever read afterwards, so they can be
// shared freely across goroutines.
package trigger
