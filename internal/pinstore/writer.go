package pinstore

import (
	"log/slog"
	"slices"
	"sync"

	"go.klb.dev/clipy/internal/item"
)

// Saver is the write half of Store.
type Saver interface {
	Save(items []item.Item) error
}

// Writer serialises saves onto one goroutine in submission order.
//
// Submit never blocks. If several snapshots arrive while a save is in
// flight only the newest is written next, so the file always converges on
// the last submitted state. Save errors are logged and otherwise dropped;
// the in-memory pinned set stays authoritative until the next good save.
type Writer struct {
	saver Saver

	mu        sync.Mutex
	cond      *sync.Cond
	pending   []item.Item
	dirty     bool
	submitted uint64
	written   uint64
	closed    bool

	done chan struct{}
}

// NewWriter starts a Writer saving through s. Call Close to stop it.
func NewWriter(s Saver) *Writer {
	w := &Writer{
		saver: s,
		done:  make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// Submit queues items as the next state to persist.
func (w *Writer) Submit(items []item.Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		slog.Warn("pin writer closed, dropping save", "items", len(items))
		return
	}
	w.pending = slices.Clone(items)
	w.dirty = true
	w.submitted++
	w.cond.Broadcast()
}

// Flush blocks until every snapshot submitted before the call has been
// written or superseded by a written one.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	target := w.submitted
	for w.written < target {
		w.cond.Wait()
	}
}

// Close writes any pending snapshot and stops the writer goroutine.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) loop() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for !w.dirty && !w.closed {
			w.cond.Wait()
		}
		if !w.dirty {
			w.mu.Unlock()
			return
		}
		items, seq := w.pending, w.submitted
		w.pending, w.dirty = nil, false
		w.mu.Unlock()

		if err := w.saver.Save(items); err != nil {
			slog.Error("saving pinned items failed", "err", err, "items", len(items))
		} else {
			slog.Debug("pinned items saved", "items", len(items))
		}

		w.mu.Lock()
		w.written = seq
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}
