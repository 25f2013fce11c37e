// Package ipc provides the local channel that CLI sub-commands use to talk
// to a running clipy daemon.
//
// The channel is plain gRPC served over a Unix domain socket (a named pipe
// on Windows). Platform files provide socketPath, listenIPC and dialIPC.
package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
)

// SocketPath returns the path of the IPC endpoint.
//
//   - $CLIPY_SOCKET when set
//   - Linux / macOS: $XDG_RUNTIME_DIR/clipy.sock, else $TMPDIR/clipy.sock
//   - Windows:       \\.\pipe\clipy
func SocketPath() string {
	if s := os.Getenv("CLIPY_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// IsRunning reports whether a daemon appears to be listening on the IPC
// endpoint. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := dialIPC(context.Background(), SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a listener on the IPC endpoint. A stale socket left by a
// crashed run is removed first; a live one is an error.
func Listen() (net.Listener, error) {
	path := SocketPath()
	if IsRunning() {
		return nil, fmt.Errorf("ipc: %s: daemon already running", path)
	}
	if err := removeStale(path); err != nil {
		return nil, err
	}
	l, err := listenIPC(path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen %s: %w", path, err)
	}
	return l, nil
}

// Dial connects to the IPC endpoint. Its signature matches
// grpc.WithContextDialer; addr is ignored in favour of SocketPath.
func Dial(ctx context.Context, _ string) (net.Conn, error) {
	path := SocketPath()
	c, err := dialIPC(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %s: %w", path, err)
	}
	return c, nil
}
