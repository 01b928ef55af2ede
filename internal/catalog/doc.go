// Package catalog holds the loaded trigger set in an immutable,
// match-ready form.
//
// A Catalog is built once from loader output and never mutated, so
// the matcher can read it from any goroutine without locking. Reload
// builds a fresh Catalog and swaps it into the Store atomically; an
// in-flight feed keeps using the snapshot it started with.
//
// Building a catalog also precomputes everything the matcher needs
// per keystroke: a final-character index over literal triggers,
// uppercase and capitalized variants for propagate-case triggers,
// end-anchored compiled regexes, and the rolling-buffer size.
package catalog
