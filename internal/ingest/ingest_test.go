package ingest

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipy/internal/board"
	"go.klb.dev/clipy/internal/clip"
	"go.klb.dev/clipy/internal/history"
	"go.klb.dev/clipy/internal/item"
	"go.klb.dev/clipy/internal/pins"
	"go.klb.dev/clipy/internal/pinstore"
	"go.klb.dev/clipy/internal/view"
)

const testDelay = 20 * time.Millisecond

// sink records every capture.
type sink struct {
	mu  sync.Mutex
	got []item.Content
}

func (s *sink) Capture(c item.Content) (item.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, c)
	return item.Item{Content: c}, true
}

func (s *sink) captured() []item.Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]item.Content(nil), s.got...)
}

func eventuallyLen(t *testing.T, fn func() int, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return fn() == want }, time.Second, 5*time.Millisecond)
}

func TestDebouncerRunsOnlyLast(t *testing.T) {
	d := NewDebouncer(testDelay)
	var calls atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.EqualValues(t, 1, calls.Load())
	assert.EqualValues(t, 5, last.Load())
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(testDelay)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(3 * testDelay)
	assert.Zero(t, calls.Load())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeShared, m)

	m, err = ParseMode("Per-Channel")
	require.NoError(t, err)
	assert.Equal(t, ModePerChannel, m)

	_, err = ParseMode("leading")
	assert.Error(t, err)
}

func TestSharedModeKeepsLastEventOfAnyKind(t *testing.T) {
	s := &sink{}
	p := New(clip.NewMemory(), s, Options{Delay: testDelay})
	defer p.Close()

	p.OnText("copied")
	p.OnImage("aGk=")

	eventuallyLen(t, func() int { return len(s.captured()) }, 1)
	time.Sleep(3 * testDelay)
	assert.Equal(t, []item.Content{item.Image("aGk=")}, s.captured())
}

func TestPerChannelModeKeepsEachKind(t *testing.T) {
	s := &sink{}
	p := New(clip.NewMemory(), s, Options{Delay: testDelay, Mode: ModePerChannel})
	defer p.Close()

	p.OnText("one")
	p.OnText("two")
	p.OnImage("aGk=")

	eventuallyLen(t, func() int { return len(s.captured()) }, 2)
	time.Sleep(3 * testDelay)
	assert.ElementsMatch(t, []item.Content{item.Text("two"), item.Image("aGk=")}, s.captured())
}

func TestRichTextIsIngestedAsText(t *testing.T) {
	s := &sink{}
	p := New(clip.NewMemory(), s, Options{Delay: testDelay})
	defer p.Close()

	p.OnRichText(`{\rtf1 hi}`)
	eventuallyLen(t, func() int { return len(s.captured()) }, 1)
	assert.Equal(t, item.Text(`{\rtf1 hi}`), s.captured()[0])
}

func TestEmptyPayloadsAreDropped(t *testing.T) {
	s := &sink{}
	p := New(clip.NewMemory(), s, Options{Delay: testDelay, Mode: ModePerChannel})
	defer p.Close()

	p.OnText("")
	p.OnRichText("")
	p.OnImage("")
	p.OnFiles(nil)
	p.OnFiles([]string{})
	time.Sleep(3 * testDelay)
	assert.Empty(t, s.captured())
}

func TestStartSurvivesFailedChannel(t *testing.T) {
	m := clip.NewMemory()
	m.Disable(clip.ChannelFiles)
	s := &sink{}
	p := New(m, s, Options{Delay: testDelay})

	active, err := p.Start()
	require.NoError(t, err)
	assert.Equal(t, 3, active)
	assert.Equal(t, 1, m.Subscribers(clip.ChannelText))
	assert.Equal(t, 1, m.Subscribers(clip.ChannelChange))

	_, err = p.Start()
	assert.Error(t, err, "second start")

	m.EmitText("still works")
	eventuallyLen(t, func() int { return len(s.captured()) }, 1)

	p.Close()
	p.Close()
	assert.Zero(t, m.Subscribers(clip.ChannelText))
	assert.Zero(t, m.Subscribers(clip.ChannelChange))
}

func TestCloseCancelsPendingCapture(t *testing.T) {
	s := &sink{}
	p := New(clip.NewMemory(), s, Options{Delay: testDelay})
	p.OnText("late")
	p.Close()
	p.OnText("after close")
	time.Sleep(3 * testDelay)
	assert.Empty(t, s.captured())
}

// TestScenario drives the whole stack: clipboard events through the
// debouncer into the board, pins through the writer onto disk.
func TestScenario(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := pinstore.New(fs, "/data")
	writer := pinstore.NewWriter(store)
	defer writer.Close()

	b := board.New(history.New(history.DefaultCap), pins.NewRegistry(nil), writer)
	defer b.Close()

	m := clip.NewMemory()
	p := New(m, b, Options{Delay: testDelay})
	_, err := p.Start()
	require.NoError(t, err)
	defer p.Close()

	texts := func() []item.Content {
		var out []item.Content
		for _, it := range b.View(view.All) {
			out = append(out, it.Content)
		}
		return out
	}

	m.EmitText("a")
	m.EmitText("a")
	eventuallyLen(t, func() int { return b.Stats().HistoryLen }, 1)
	time.Sleep(3 * testDelay)
	assert.Equal(t, []item.Content{item.Text("a")}, texts())

	m.EmitText("b")
	eventuallyLen(t, func() int { return b.Stats().HistoryLen }, 2)
	assert.Equal(t, []item.Content{item.Text("b"), item.Text("a")}, texts())

	items := b.View(view.All)
	bID, aID := items[0].ID, items[1].ID

	_, err = b.TogglePin(bID)
	require.NoError(t, err)
	writer.Flush()

	onDisk, err := store.Load()
	require.NoError(t, err)
	require.Len(t, onDisk, 1)
	assert.Equal(t, bID, onDisk[0].ID)
	assert.Equal(t, item.Text("b"), onDisk[0].Content)
	assert.True(t, onDisk[0].Pinned)

	require.NoError(t, b.Delete(aID))
	writer.Flush()
	assert.Equal(t, []item.Content{item.Text("b")}, texts())
	assert.Equal(t, 1, b.Stats().Pinned)

	onDisk, err = store.Load()
	require.NoError(t, err)
	require.Len(t, onDisk, 1)
	assert.Equal(t, bID, onDisk[0].ID)
}

func TestRestoreFeedsBackThroughIngestion(t *testing.T) {
	b := board.New(history.New(history.DefaultCap), pins.NewRegistry(nil), nil)
	m := clip.NewMemory()
	p := New(m, b, Options{Delay: testDelay})
	_, err := p.Start()
	require.NoError(t, err)
	defer p.Close()

	m.EmitText("older")
	eventuallyLen(t, func() int { return b.Stats().HistoryLen }, 1)
	m.EmitText("newer")
	eventuallyLen(t, func() int { return b.Stats().HistoryLen }, 2)

	older := b.View(view.All)[1]
	require.NoError(t, clip.Restore(m, older.Content))
	eventuallyLen(t, func() int { return b.Stats().HistoryLen }, 3)

	head := b.View(view.All)[0]
	assert.Equal(t, item.Text("older"), head.Content)
	assert.NotEqual(t, older.ID, head.ID)
}
