// Package board owns the clipboard history and the pinned set and keeps
// the two consistent.
//
// Every mutation goes through one mutex, so ingestion callbacks, pin
// toggles and deletions are applied one at a time in arrival order. After
// each change to the pinned set the current pinned snapshot is handed to a
// Saver; the board never waits for the write to finish.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.klb.dev/clipy/internal/history"
	"go.klb.dev/clipy/internal/item"
	"go.klb.dev/clipy/internal/pins"
	"go.klb.dev/clipy/internal/view"
)

var (
	// ErrNotFound is returned when no history or pinned item matches an ID.
	ErrNotFound = errors.New("item not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one item.
	ErrAmbiguous = errors.New("ambiguous item id")
)

// Saver receives the full pinned set after every change to it.
// Submit must not block.
type Saver interface {
	Submit(items []item.Item)
}

// Stats is a snapshot of the board's size.
type Stats struct {
	HistoryLen int
	HistoryCap int
	Pinned     int
	Watchers   int
}

// Board is the reconciliation point between history and pins.
type Board struct {
	mu       sync.Mutex
	history  *history.Store
	pins     *pins.Registry
	saver    Saver
	watchers map[string]Watcher
	now      func() time.Time
	closed   bool
}

// New returns a Board over h and p that persists pin changes through s.
func New(h *history.Store, p *pins.Registry, s Saver) *Board {
	return &Board{
		history: h,
		pins:    p,
		saver:   s,
		now:     time.Now,
	}
}

// Capture is the append stage of ingestion. If c equals the content of the
// newest history entry nothing happens and ok is false. Otherwise a new
// unpinned item is inserted at the head, evicting the oldest entry past
// the cap.
func (b *Board) Capture(c item.Content) (it item.Item, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || item.IsEmpty(c) {
		return item.Item{}, false
	}

	if head, exists := b.history.Head(); exists && item.Equal(head.Content, c) {
		slog.Debug("clipboard unchanged, skipping", "kind", c.Kind(), "head", head.ID)
		return item.Item{}, false
	}

	it = item.New(c, b.now())
	for _, ev := range b.history.Insert(it) {
		slog.Debug("history entry evicted", "id", ev.ID, "kind", ev.Kind(), "pinned", ev.Pinned)
	}
	LogItem("clipboard captured", it)
	b.publishLocked(Event{Type: EventCaptured, Item: it})
	return it.Clone(), true
}

// TogglePin flips the pin flag of the item with the given ID, updates the
// pinned set and history to match, and schedules a save of the pinned set.
// Items that were evicted from history but are still pinned can be
// toggled too.
func (b *Board) TogglePin(id string) (item.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return item.Item{}, ErrNotFound
	}

	it, ok := b.history.Get(id)
	if !ok {
		it, ok = b.pins.Get(id)
	}
	if !ok {
		return item.Item{}, fmt.Errorf("toggle pin %s: %w", id, ErrNotFound)
	}

	it.Pinned = !it.Pinned
	if it.Pinned {
		b.pins.Add(it)
	} else {
		b.pins.Remove(id)
	}
	b.history.SetPinned(id, it.Pinned)
	b.persistLocked()

	slog.Info("pin toggled", "id", id, "kind", it.Kind(), "pinned", it.Pinned)
	ev := EventUnpinned
	if it.Pinned {
		ev = EventPinned
	}
	b.publishLocked(Event{Type: ev, Item: it})
	return it.Clone(), nil
}

// Delete removes the item with the given ID from history and from the
// pinned set, then schedules a save of the pinned set.
func (b *Board) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrNotFound
	}

	it, ok := b.history.Get(id)
	if !ok {
		it, ok = b.pins.Get(id)
	}
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	b.history.Remove(id)
	wasPinned := b.pins.Remove(id)
	b.persistLocked()

	slog.Info("item deleted", "id", id, "was_pinned", wasPinned)
	b.publishLocked(Event{Type: EventDeleted, Item: it})
	return nil
}

// Get returns the item with the given ID from history or the pinned set.
func (b *Board) Get(id string) (item.Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if it, ok := b.history.Get(id); ok {
		return it.Clone(), true
	}
	if it, ok := b.pins.Get(id); ok {
		return it.Clone(), true
	}
	return item.Item{}, false
}

// Lookup resolves ref, a full item ID or a unique prefix of one.
func (b *Board) Lookup(ref string) (item.Item, error) {
	if ref == "" {
		return item.Item{}, fmt.Errorf("empty id: %w", ErrNotFound)
	}
	if it, ok := b.Get(ref); ok {
		return it, nil
	}

	var (
		match item.Item
		n     int
	)
	for _, it := range b.View(view.All) {
		if strings.HasPrefix(it.ID, ref) {
			match = it
			n++
		}
	}
	switch n {
	case 0:
		return item.Item{}, fmt.Errorf("lookup %s: %w", ref, ErrNotFound)
	case 1:
		return match, nil
	default:
		return item.Item{}, fmt.Errorf("lookup %s matches %d items: %w", ref, n, ErrAmbiguous)
	}
}

// View returns pinned items, then non-pinned history, restricted to f.
func (b *Board) View(f view.Filter) []item.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return view.Project(b.pins.Pinned(), b.history.Items(), f)
}

// Stats returns the current sizes of history and the pinned set.
func (b *Board) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		HistoryLen: b.history.Len(),
		HistoryCap: b.history.Cap(),
		Pinned:     len(b.pins.Pinned()),
		Watchers:   len(b.watchers),
	}
}

// Close disables further mutations. Callbacks that were already scheduled
// when the owner shut down become no-ops.
func (b *Board) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// persistLocked hands the current pinned subset to the saver.
// Must be called with b.mu held.
func (b *Board) persistLocked() {
	if b.saver != nil {
		b.saver.Submit(b.pins.Pinned())
	}
}
