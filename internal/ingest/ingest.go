// Package ingest turns clipboard notifications from a clip.Backend into
// debounced captures on a board.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.klb.dev/clipy/internal/clip"
	"go.klb.dev/clipy/internal/item"
)

// DefaultDelay is the trailing-edge debounce window.
const DefaultDelay = 100 * time.Millisecond

// Mode selects how debounce timers are shared between channels.
type Mode string

const (
	// ModeShared uses one timer for every channel: the last event of any
	// kind within the window wins.
	ModeShared Mode = "shared"
	// ModePerChannel gives each channel its own timer.
	ModePerChannel Mode = "per-channel"
)

// ParseMode accepts "shared" or "per-channel"; empty means shared.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeShared:
		return ModeShared, nil
	case ModePerChannel:
		return ModePerChannel, nil
	default:
		return "", fmt.Errorf("unknown debounce mode %q (want %s or %s)", s, ModeShared, ModePerChannel)
	}
}

// Sink is the append stage. board.Board satisfies it.
type Sink interface {
	Capture(c item.Content) (item.Item, bool)
}

// Options configures a Pipeline.
type Options struct {
	Delay time.Duration
	Mode  Mode
}

// Pipeline owns the backend subscriptions and the debounce timers.
type Pipeline struct {
	backend clip.Backend
	sink    Sink
	opts    Options

	mu      sync.Mutex
	unsubs  []clip.Unsubscribe
	timers  map[clip.Channel]*Debouncer
	shared  *Debouncer
	started bool
	closed  bool
}

// New creates a pipeline but does not subscribe to anything.
func New(backend clip.Backend, sink Sink, opts Options) *Pipeline {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Mode == "" {
		opts.Mode = ModeShared
	}
	p := &Pipeline{
		backend: backend,
		sink:    sink,
		opts:    opts,
		timers:  make(map[clip.Channel]*Debouncer),
	}
	if opts.Mode == ModeShared {
		p.shared = NewDebouncer(opts.Delay)
	}
	return p
}

// Options returns the effective settings.
func (p *Pipeline) Options() Options { return p.opts }

// Start subscribes to every clipboard channel. A channel that fails to
// subscribe is logged and left inactive. It returns the number of content
// channels that are live.
func (p *Pipeline) Start() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.New("ingest: pipeline closed")
	}
	if p.started {
		return 0, errors.New("ingest: pipeline already started")
	}
	p.started = true

	subs := []struct {
		ch  clip.Channel
		sub func() (clip.Unsubscribe, error)
	}{
		{clip.ChannelText, func() (clip.Unsubscribe, error) { return p.backend.OnText(p.OnText) }},
		{clip.ChannelRichText, func() (clip.Unsubscribe, error) { return p.backend.OnRichText(p.OnRichText) }},
		{clip.ChannelImage, func() (clip.Unsubscribe, error) { return p.backend.OnImage(p.OnImage) }},
		{clip.ChannelFiles, func() (clip.Unsubscribe, error) { return p.backend.OnFiles(p.OnFiles) }},
	}

	active := 0
	for _, s := range subs {
		unsub, err := s.sub()
		if err != nil {
			slog.Warn("clipboard listener setup failed", "channel", s.ch, "backend", p.backend.Name(), "err", err)
			continue
		}
		p.unsubs = append(p.unsubs, unsub)
		active++
	}

	if unsub, err := p.backend.OnChange(func() { slog.Debug("clipboard changed") }); err != nil {
		slog.Warn("clipboard listener setup failed", "channel", clip.ChannelChange, "err", err)
	} else {
		p.unsubs = append(p.unsubs, unsub)
	}

	slog.Info("ingestion started",
		"backend", p.backend.Name(),
		"channels", active,
		"debounce", p.opts.Delay,
		"mode", p.opts.Mode,
	)
	return active, nil
}

func (p *Pipeline) OnText(text string) {
	if text == "" {
		slog.Debug("empty text update dropped")
		return
	}
	p.schedule(clip.ChannelText, item.Text(text))
}

// OnRichText ingests rich text serialised as plain text.
func (p *Pipeline) OnRichText(rtf string) {
	if rtf == "" {
		slog.Debug("empty rich-text update dropped")
		return
	}
	p.schedule(clip.ChannelRichText, item.Text(rtf))
}

// OnImage ingests a base64-encoded PNG.
func (p *Pipeline) OnImage(b64 string) {
	if b64 == "" {
		slog.Debug("empty image update dropped")
		return
	}
	p.schedule(clip.ChannelImage, item.Image(b64))
}

func (p *Pipeline) OnFiles(paths []string) {
	if len(paths) == 0 {
		slog.Debug("empty file list dropped")
		return
	}
	p.schedule(clip.ChannelFiles, item.Files(slices.Clone(paths)))
}

func (p *Pipeline) schedule(ch clip.Channel, c item.Content) {
	d := p.debouncer(ch)
	if d == nil {
		return
	}
	d.Trigger(func() { p.sink.Capture(c) })
}

func (p *Pipeline) debouncer(ch clip.Channel) *Debouncer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if p.shared != nil {
		return p.shared
	}
	d, ok := p.timers[ch]
	if !ok {
		d = NewDebouncer(p.opts.Delay)
		p.timers[ch] = d
	}
	return d
}

// Close releases every subscription and cancels pending captures.
// It is safe to call more than once.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	unsubs := p.unsubs
	p.unsubs = nil
	if p.shared != nil {
		p.shared.Stop()
	}
	for _, d := range p.timers {
		d.Stop()
	}
	p.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	slog.Debug("ingestion stopped")
}
