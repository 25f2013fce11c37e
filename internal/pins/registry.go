// Package pins holds the in-memory set of pinned clipboard items.
package pins

import (
	"slices"

	"go.klb.dev/clipy/internal/item"
)

// Registry is the ordered set of pinned items. It has no size cap. Order is
// insertion order, which is the order pinned items are displayed in.
// A Registry is not safe for concurrent use.
type Registry struct {
	items []item.Item
}

// NewRegistry returns a registry seeded with initial, typically the items
// loaded from disk at startup. Duplicate IDs keep their first position.
func NewRegistry(initial []item.Item) *Registry {
	r := &Registry{}
	for _, it := range initial {
		r.Add(it)
	}
	return r
}

// Add inserts it, or replaces the entry with the same ID in place.
func (r *Registry) Add(it item.Item) {
	if i := r.index(it.ID); i >= 0 {
		r.items[i] = it.Clone()
		return
	}
	r.items = append(r.items, it.Clone())
}

// Remove deletes the entry with the given ID and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.items = slices.Delete(r.items, i, i+1)
	return true
}

// Get returns the entry with the given ID.
func (r *Registry) Get(id string) (item.Item, bool) {
	if i := r.index(id); i >= 0 {
		return r.items[i], true
	}
	return item.Item{}, false
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.items) }

// Items returns a copy of all entries.
func (r *Registry) Items() []item.Item {
	out := make([]item.Item, len(r.items))
	for i, it := range r.items {
		out[i] = it.Clone()
	}
	return out
}

// Pinned returns a copy of the entries whose pin flag is set. This is the
// snapshot handed to persistence.
func (r *Registry) Pinned() []item.Item {
	out := make([]item.Item, 0, len(r.items))
	for _, it := range r.items {
		if it.Pinned {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.items, func(it item.Item) bool { return it.ID == id })
}
