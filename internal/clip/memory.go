package clip

import (
	"fmt"
	"slices"
	"sync"
)

// Memory is an in-process clipboard. Writes are stored and echoed to the
// subscribers of the matching channel, the way an OS clipboard notifies
// its listeners. It backs headless hosts and tests.
type Memory struct {
	mu       sync.Mutex
	next     int
	subs     map[Channel]map[int]any
	disabled map[Channel]bool
	closed   bool

	text  string
	image string
	files []string
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{
		subs:     make(map[Channel]map[int]any),
		disabled: make(map[Channel]bool),
	}
}

func (m *Memory) Name() string { return "in-memory (headless)" }

// Disable makes later subscriptions to ch fail with ErrUnsupported.
func (m *Memory) Disable(ch Channel) {
	m.mu.Lock()
	m.disabled[ch] = true
	m.mu.Unlock()
}

func (m *Memory) OnText(fn func(string)) (Unsubscribe, error)     { return m.subscribe(ChannelText, fn) }
func (m *Memory) OnRichText(fn func(string)) (Unsubscribe, error) { return m.subscribe(ChannelRichText, fn) }
func (m *Memory) OnImage(fn func(string)) (Unsubscribe, error)    { return m.subscribe(ChannelImage, fn) }
func (m *Memory) OnFiles(fn func([]string)) (Unsubscribe, error)  { return m.subscribe(ChannelFiles, fn) }
func (m *Memory) OnChange(fn func()) (Unsubscribe, error)         { return m.subscribe(ChannelChange, fn) }

func (m *Memory) subscribe(ch Channel, fn any) (Unsubscribe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, fmt.Errorf("clip: subscribe %s: backend closed", ch)
	}
	if m.disabled[ch] {
		return nil, fmt.Errorf("clip: subscribe %s: %w", ch, ErrUnsupported)
	}
	if m.subs[ch] == nil {
		m.subs[ch] = make(map[int]any)
	}
	id := m.next
	m.next++
	m.subs[ch][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[ch], id)
			m.mu.Unlock()
		})
	}, nil
}

// Subscribers returns the number of live subscriptions on ch.
func (m *Memory) Subscribers(ch Channel) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[ch])
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	m.EmitText(text)
	return nil
}

func (m *Memory) WriteImageBase64(b64 string) error {
	m.mu.Lock()
	m.image = b64
	m.mu.Unlock()
	m.EmitImage(b64)
	return nil
}

func (m *Memory) WriteFiles(paths []string) error {
	m.mu.Lock()
	m.files = slices.Clone(paths)
	m.mu.Unlock()
	m.EmitFiles(paths)
	return nil
}

// Text, Image and Files return the last written value of each format.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func (m *Memory) Image() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.image
}

func (m *Memory) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.files)
}

// EmitText notifies text subscribers as if the OS clipboard changed.
func (m *Memory) EmitText(text string) {
	for _, fn := range m.listeners(ChannelText) {
		fn.(func(string))(text)
	}
	m.emitChange()
}

// EmitRichText notifies rich-text subscribers.
func (m *Memory) EmitRichText(rtf string) {
	for _, fn := range m.listeners(ChannelRichText) {
		fn.(func(string))(rtf)
	}
	m.emitChange()
}

// EmitImage notifies image subscribers with a base64 PNG.
func (m *Memory) EmitImage(b64 string) {
	for _, fn := range m.listeners(ChannelImage) {
		fn.(func(string))(b64)
	}
	m.emitChange()
}

// EmitFiles notifies file-list subscribers.
func (m *Memory) EmitFiles(paths []string) {
	for _, fn := range m.listeners(ChannelFiles) {
		fn.(func([]string))(slices.Clone(paths))
	}
	m.emitChange()
}

func (m *Memory) emitChange() {
	for _, fn := range m.listeners(ChannelChange) {
		fn.(func())()
	}
}

// listeners snapshots the callbacks for ch so they run without the lock.
func (m *Memory) listeners(ch Channel) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	out := make([]any, 0, len(m.subs[ch]))
	for _, fn := range m.subs[ch] {
		out = append(out, fn)
	}
	return out
}

func (m *Memory) Close() {
	m.mu.Lock()
	m.closed = true
	clear(m.subs)
	m.mu.Unlock()
}
