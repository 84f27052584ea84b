package catalog

import "sync/atomic"

// Store holds the current snapshot behind an atomic pointer. Readers grab
// the pointer once per request and work against that view; Replace swaps in
// a fully built snapshot, so readers never observe a partial catalog.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore(initial *Snapshot) *Store {
	s := &Store{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Get returns the current snapshot, or nil before the first load.
func (s *Store) Get() *Snapshot {
	return s.current.Load()
}

func (s *Store) Replace(next *Snapshot) {
	if next != nil {
		s.current.Store(next)
	}
}
