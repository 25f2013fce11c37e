package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"go.klb.dev/clipy/internal/board"
	"go.klb.dev/clipy/internal/clip"
	"go.klb.dev/clipy/internal/history"
	"go.klb.dev/clipy/internal/ingest"
	"go.klb.dev/clipy/internal/item"
	"go.klb.dev/clipy/internal/message"
	"go.klb.dev/clipy/internal/pins"
)

type fixture struct {
	board   *board.Board
	backend *clip.Memory
	client  *Client
}

func setup(t *testing.T) *fixture {
	t.Helper()

	b := board.New(history.New(history.DefaultCap), pins.NewRegistry(nil), nil)
	m := clip.NewMemory()
	p := ingest.New(m, b, ingest.Options{Delay: 10 * time.Millisecond})
	_, err := p.Start()
	require.NoError(t, err)

	svc := New(b, m, Info{Version: "test", PinFile: "/data/pinned_items.json", Debounce: 10 * time.Millisecond, DebounceMode: "shared"})
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(svc)
	go func() { _ = srv.Serve(lis) }()

	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	conn, err := grpc.NewClient("passthrough:///bufnet", append(DialOptions(), grpc.WithContextDialer(dialer))...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
		p.Close()
		b.Close()
	})
	return &fixture{board: b, backend: m, client: NewClient(conn)}
}

func (f *fixture) waitLen(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return f.board.Stats().HistoryLen == n }, time.Second, 5*time.Millisecond)
}

func code(err error) codes.Code { return status.Code(err) }

func TestCopyListAndPin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.client.Copy(ctx, message.NewTextCopy("first")))
	f.waitLen(t, 1)
	require.NoError(t, f.client.Copy(ctx, message.NewFilesCopy([]string{"/tmp/x"})))
	f.waitLen(t, 2)

	items, err := f.client.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, item.Files{"/tmp/x"}, items[0].Content)

	text, err := f.client.List(ctx, "text")
	require.NoError(t, err)
	require.Len(t, text, 1)

	pinned, err := f.client.TogglePin(ctx, text[0].ID[:8])
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	items, err = f.client.List(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, text[0].ID, items[0].ID, "pinned items come first")

	st, err := f.client.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.HistoryLen)
	assert.Equal(t, history.DefaultCap, st.HistoryCap)
	assert.Equal(t, 1, st.Pinned)
	assert.Equal(t, "test", st.Version)
	assert.Equal(t, f.backend.Name(), st.Backend)
	assert.Equal(t, 10*time.Millisecond, st.Debounce)
}

func TestRestoreWritesBackend(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.client.Copy(ctx, message.NewTextCopy("one")))
	f.waitLen(t, 1)
	require.NoError(t, f.client.Copy(ctx, message.NewTextCopy("two")))
	f.waitLen(t, 2)

	items, err := f.client.List(ctx, "")
	require.NoError(t, err)
	restored, err := f.client.Restore(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, item.Text("one"), restored.Content)
	assert.Equal(t, "one", f.backend.Text())
	f.waitLen(t, 3)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.client.Copy(ctx, message.NewTextCopy("gone")))
	f.waitLen(t, 1)
	items, err := f.client.List(ctx, "")
	require.NoError(t, err)

	require.NoError(t, f.client.Delete(ctx, items[0].ID))
	assert.Zero(t, f.board.Stats().HistoryLen)

	err = f.client.Delete(ctx, items[0].ID)
	assert.Equal(t, codes.NotFound, code(err))
}

func TestErrorCodes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.client.List(ctx, "audio")
	assert.Equal(t, codes.InvalidArgument, code(err))

	err = f.client.Copy(ctx, message.NewTextCopy(""))
	assert.Equal(t, codes.InvalidArgument, code(err))

	_, err = f.client.TogglePin(ctx, "missing")
	assert.Equal(t, codes.NotFound, code(err))

	_, err = f.client.Restore(ctx, "")
	assert.Equal(t, codes.NotFound, code(err))
}

func TestToStatusAmbiguous(t *testing.T) {
	assert.Equal(t, codes.FailedPrecondition, code(toStatus(board.ErrAmbiguous)))
	assert.Equal(t, codes.Internal, code(toStatus(clip.ErrUnsupported)))
}

func TestWatchStreamsEvents(t *testing.T) {
	f := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := f.client.Watch(ctx, "text")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.board.Stats().Watchers == 1 }, time.Second, 5*time.Millisecond)

	f.board.Capture(item.Image("aGk="))
	it, _ := f.board.Capture(item.Text("watched"))

	ev, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, string(board.EventCaptured), ev.Type)
	assert.Equal(t, it.ID, ev.Item.ID, "image event is filtered out")

	cancel()
	require.Eventually(t, func() bool { return f.board.Stats().Watchers == 0 }, time.Second, 5*time.Millisecond)
}
