package catalog

import (
	"sync/atomic"

	"github.com/dshills/snipstorm/internal/trigger"
)

// Store publishes the current catalog to the matcher. Replace swaps
// snapshots atomically: a feed that already loaded the old snapshot
// finishes against it, and the next feed sees the new one. No reader
// ever observes a half-updated catalog.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store holding the given catalog.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the active catalog snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace atomically swaps in a new catalog.
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}

// GlobalVar looks up a global variable in the active snapshot.
func (s *Store) GlobalVar(name string) (*trigger.Variable, bool) {
	return s.Current().GlobalVar(name)
}

// SubTemplate looks up a trigger's template in the active snapshot.
func (s *Store) SubTemplate(text string) (*trigger.Template, bool) {
	return s.Current().SubTemplate(text)
}
