// Package history implements the bounded, most-recent-first record of
// captured clipboard items.
//
// The store is independent of the pin registry: eviction drops the oldest
// entry past the cap whether or not it is pinned. A Store is not safe for
// concurrent use; its owner serialises access.
package history

import (
	"slices"

	"go.klb.dev/clipy/internal/item"
)

// DefaultCap is the number of entries kept when no cap is configured.
const DefaultCap = 50

// Store is an ordered, capped list of items, newest first.
type Store struct {
	cap   int
	items []item.Item
}

// New returns an empty Store holding at most limit items. A limit <= 0
// selects DefaultCap.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultCap
	}
	return &Store{cap: limit, items: make([]item.Item, 0, limit+1)}
}

// Cap returns the maximum number of entries.
func (s *Store) Cap() int { return s.cap }

// Len returns the current number of entries.
func (s *Store) Len() int { return len(s.items) }

// Insert prepends it and truncates the store to its cap. The entries that
// fell off the end are returned, oldest last.
func (s *Store) Insert(it item.Item) (evicted []item.Item) {
	s.items = slices.Insert(s.items, 0, it)
	if len(s.items) > s.cap {
		evicted = slices.Clone(s.items[s.cap:])
		clear(s.items[s.cap:])
		s.items = s.items[:s.cap]
	}
	return evicted
}

// Head returns the most recent entry.
func (s *Store) Head() (item.Item, bool) {
	if len(s.items) == 0 {
		return item.Item{}, false
	}
	return s.items[0], true
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (item.Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return item.Item{}, false
}

// Remove deletes the entry with the given ID. It reports whether an entry
// was removed.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// SetPinned rewrites the pin flag of the entry with the given ID in place.
// It reports whether the entry was found.
func (s *Store) SetPinned(id string, pinned bool) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items[i].Pinned = pinned
	return true
}

// Items returns a copy of the entries, newest first.
func (s *Store) Items() []item.Item {
	out := make([]item.Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it item.Item) bool { return it.ID == id })
}
