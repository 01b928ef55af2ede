// Package settings loads the runtime configuration the engine
// consumes: extension timeouts, the shell execution environment, the
// regex matching window, render worker sizing, and the random seed
// used for reproducible runs.
//
// Settings live in a TOML file, with a small set of environment
// variable overrides applied on top. Trigger definitions are not
// settings; they load through the catalog loader.
package settings
