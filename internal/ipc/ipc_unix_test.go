//go:build !windows

package ipc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortSocket keeps the path under the sun_path limit on macOS.
func shortSocket(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "clipy")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "c.sock")
	t.Setenv("CLIPY_SOCKET", path)
	return path
}

func TestSocketPathOverride(t *testing.T) {
	t.Setenv("CLIPY_SOCKET", "/run/custom.sock")
	assert.Equal(t, "/run/custom.sock", SocketPath())
}

func TestSocketPathPrefersRuntimeDir(t *testing.T) {
	t.Setenv("CLIPY_SOCKET", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/clipy.sock", SocketPath())
}

func TestListenDialAndRunning(t *testing.T) {
	shortSocket(t)
	assert.False(t, IsRunning())

	l, err := Listen()
	require.NoError(t, err)
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	assert.True(t, IsRunning())
	c, err := Dial(context.Background(), "ignored")
	require.NoError(t, err)
	_ = c.Close()

	_, err = Listen()
	assert.Error(t, err, "second daemon must not steal the socket")

	require.NoError(t, l.Close())
	assert.False(t, IsRunning())
}

func TestListenRemovesStaleSocket(t *testing.T) {
	path := shortSocket(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	l, err := Listen()
	require.NoError(t, err)
	_ = l.Close()
}
