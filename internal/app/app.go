// Package app wires the expansion engine together: settings, match
// catalog, incremental matcher, render dispatcher, and the optional
// match-file watcher. Frontends feed it keystrokes and drain rendered
// expansions; everything else is internal wiring.
package app

import (
	"context"
	"sync/atomic"

	"github.com/dshills/snipstorm/internal/catalog"
	"github.com/dshills/snipstorm/internal/catalog/loader"
	"github.com/dshills/snipstorm/internal/dispatch"
	"github.com/dshills/snipstorm/internal/extension"
	"github.com/dshills/snipstorm/internal/match"
	"github.com/dshills/snipstorm/internal/render"
	"github.com/dshills/snipstorm/internal/settings"
	"github.com/dshills/snipstorm/internal/settings/watcher"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the TOML settings file.
	ConfigPath string

	// MatchPaths are the match files to load, in order.
	MatchPaths []string

	// Watch reloads match files when they change on disk.
	Watch bool
}

// App is the assembled expansion engine.
type App struct {
	opts     Options
	settings settings.Settings

	store      *catalog.Store
	matcher    *match.Matcher
	dispatcher *dispatch.Dispatcher
	watcher    *watcher.Watcher

	running atomic.Bool
}

// New loads settings and match files and assembles the engine. The
// dispatcher is not running until Start.
func New(opts Options) (*App, error) {
	a := &App{opts: opts}

	var err error
	a.settings, err = settings.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "settings", Err: err}
	}

	cat, err := a.buildCatalog()
	if err != nil {
		return nil, &InitError{Component: "catalog", Err: err}
	}
	a.store = catalog.NewStore(cat)
	a.matcher = match.New(a.store)

	registry := extension.NewRegistry(a.settings.ExtensionConfig())
	engine := render.New(registry)
	a.dispatcher = dispatch.New(engine, a.store, a.matcher,
		dispatch.WithWorkers(a.settings.Render.Workers),
		dispatch.WithQueueSize(a.settings.Render.QueueSize),
	)

	return a, nil
}

// buildCatalog loads and compiles the match files.
func (a *App) buildCatalog() (*catalog.Catalog, error) {
	res, err := loader.Load(a.opts.MatchPaths...)
	if err != nil {
		return nil, err
	}
	return catalog.Build(res.Triggers, res.Globals, a.settings.CatalogOptions())
}

// Start launches the render workers and, when enabled, the match-file
// watcher.
func (a *App) Start(ctx context.Context) error {
	if err := a.dispatcher.Start(ctx); err != nil {
		return err
	}
	a.running.Store(true)

	if a.opts.Watch {
		w, err := watcher.New(func(string) {
			// A failed reload keeps the current catalog.
			_ = a.Reload()
		})
		if err != nil {
			a.dispatcher.Stop()
			a.running.Store(false)
			return &InitError{Component: "watcher", Err: err}
		}
		for _, path := range a.opts.MatchPaths {
			if err := w.Watch(path); err != nil {
				_ = w.Close()
				a.dispatcher.Stop()
				a.running.Store(false)
				return &InitError{Component: "watcher", Err: err}
			}
		}
		a.watcher = w
	}

	return nil
}

// Reload rebuilds the catalog from the match files and swaps it in.
// In-flight renders finish against the old snapshot.
func (a *App) Reload() error {
	cat, err := a.buildCatalog()
	if err != nil {
		return err
	}
	a.store.Replace(cat)
	return nil
}

// Feed advances the named context by one typed character. When the
// character completes a trigger, the render request is queued and
// Feed reports true; the expansion arrives on Responses.
func (a *App) Feed(contextID string, r rune) (bool, error) {
	ev, ok := a.matcher.Feed(contextID, r)
	if !ok {
		return false, nil
	}
	trig, ok := a.store.Current().Get(ev.TriggerID)
	if !ok {
		return false, nil
	}
	if _, err := a.dispatcher.Submit(trig.Template, ev); err != nil {
		return false, err
	}
	return true, nil
}

// Reset discards the named context's typed buffer. Pending renders
// for the old buffer are invalidated.
func (a *App) Reset(contextID string) {
	a.matcher.Reset(contextID)
}

// Responses is the stream of completed renders.
func (a *App) Responses() <-chan dispatch.Response {
	return a.dispatcher.Responses()
}

// Valid reports whether a response still applies to its context.
func (a *App) Valid(resp dispatch.Response) bool {
	return a.dispatcher.Valid(resp)
}

// Settings returns the loaded configuration.
func (a *App) Settings() settings.Settings {
	return a.settings
}

// Shutdown stops the watcher and the render workers. Safe to call
// more than once.
func (a *App) Shutdown() {
	if !a.running.CompareAndSwap(true, false) {
		return
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	a.dispatcher.Stop()
}
