package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.klb.dev/clipy/internal/ipc"
	"go.klb.dev/clipy/internal/item"
	"go.klb.dev/clipy/internal/message"
)

// Client is a typed History client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an existing connection. The connection must force the
// JSON codec; DialOptions does that.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// DialOptions returns the options every clipy connection needs.
func DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	}
}

// DialIPC connects to the daemon on the local IPC socket.
func DialIPC() (*grpc.ClientConn, error) {
	opts := append(DialOptions(), grpc.WithContextDialer(ipc.Dial))
	conn, err := grpc.NewClient("passthrough:///clipy", opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return conn, nil
}

// List returns the view restricted to filter.
func (c *Client) List(ctx context.Context, filter string) ([]item.Item, error) {
	var resp message.ListResponse
	if err := c.cc.Invoke(ctx, fullMethod("List"), &message.ListRequest{Filter: filter}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// TogglePin flips the pin flag of the item named by ref.
func (c *Client) TogglePin(ctx context.Context, ref string) (item.Item, error) {
	return c.itemCall(ctx, "TogglePin", ref)
}

// Restore puts the item named by ref back on the clipboard.
func (c *Client) Restore(ctx context.Context, ref string) (item.Item, error) {
	return c.itemCall(ctx, "Restore", ref)
}

func (c *Client) itemCall(ctx context.Context, method, ref string) (item.Item, error) {
	var resp message.ItemResponse
	if err := c.cc.Invoke(ctx, fullMethod(method), &message.ItemRequest{ID: ref}, &resp); err != nil {
		return item.Item{}, err
	}
	return resp.Item, nil
}

// Delete removes the item named by ref from history and the pinned set.
func (c *Client) Delete(ctx context.Context, ref string) error {
	return c.cc.Invoke(ctx, fullMethod("Delete"), &message.ItemRequest{ID: ref}, &message.Empty{})
}

// Copy writes new content to the daemon's clipboard.
func (c *Client) Copy(ctx context.Context, req message.CopyRequest) error {
	return c.cc.Invoke(ctx, fullMethod("Copy"), &req, &message.Empty{})
}

func (c *Client) Status(ctx context.Context) (*message.StatusResponse, error) {
	var resp message.StatusResponse
	if err := c.cc.Invoke(ctx, fullMethod("Status"), &message.StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Watch opens an event stream. Cancel ctx to close it.
func (c *Client) Watch(ctx context.Context, filter string) (grpc.ServerStreamingClient[message.Event], error) {
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], fullMethod("Watch"))
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[message.WatchRequest, message.Event]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(&message.WatchRequest{Filter: filter}); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
