package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/clipy/internal/ipc"
	"go.klb.dev/clipy/internal/rpc"
)

// callTimeout bounds every unary call to the daemon.
const callTimeout = 5 * time.Second

var errNoDaemon = errors.New("clipy daemon is not running (start it with \"clipy daemon\")")

// withClient connects to the daemon over IPC and runs fn.
func withClient(fn func(ctx context.Context, c *rpc.Client) error) error {
	if !ipc.IsRunning() {
		return errNoDaemon
	}
	conn, err := rpc.DialIPC()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return describe(fn(ctx, rpc.NewClient(conn)))
}

// describe turns gRPC status errors into plain messages.
func describe(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound, codes.InvalidArgument, codes.FailedPrecondition:
		return errors.New(st.Message())
	case codes.Unavailable:
		return errNoDaemon
	default:
		return fmt.Errorf("daemon: %s", st.Message())
	}
}

// defaultDataDir returns the per-user directory holding the pin file.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clipy")
	}
	return filepath.Join(os.TempDir(), "clipy")
}

// shortID is the prefix shown in listings; any unique prefix is accepted
// back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return t.Format("15:04:05")
	default:
		return t.Format("2006-01-02")
	}
}

// absPaths makes every path absolute relative to the working directory.
func absPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}
