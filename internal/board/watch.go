package board

import (
	"log/slog"

	"go.klb.dev/clipy/internal/item"
)

// EventType says what happened to an item.
type EventType string

const (
	EventCaptured EventType = "captured"
	EventPinned   EventType = "pinned"
	EventUnpinned EventType = "unpinned"
	EventDeleted  EventType = "deleted"
)

// Event is a board change delivered to watchers.
type Event struct {
	Type EventType
	Item item.Item
}

// Watcher is anything that wants board events.
type Watcher interface {
	ID() string
	// Send delivers an event. Must be non-blocking.
	Send(Event)
}

// Register adds w to the set of watchers.
func (b *Board) Register(w Watcher) {
	b.mu.Lock()
	if b.watchers == nil {
		b.watchers = make(map[string]Watcher)
	}
	b.watchers[w.ID()] = w
	total := len(b.watchers)
	b.mu.Unlock()

	slog.Info("watcher registered", "watcher", w.ID(), "total", total)
}

// Unregister removes w.
func (b *Board) Unregister(w Watcher) {
	b.mu.Lock()
	delete(b.watchers, w.ID())
	total := len(b.watchers)
	b.mu.Unlock()

	slog.Info("watcher unregistered", "watcher", w.ID(), "total", total)
}

// publishLocked fans ev out to every watcher.
// Must be called with b.mu held.
func (b *Board) publishLocked(ev Event) {
	for _, w := range b.watchers {
		w.Send(Event{Type: ev.Type, Item: ev.Item.Clone()})
	}
}
