package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"go.klb.dev/clipy/internal/board"
	"go.klb.dev/clipy/internal/clip"
	"go.klb.dev/clipy/internal/history"
	"go.klb.dev/clipy/internal/ingest"
	"go.klb.dev/clipy/internal/ipc"
	"go.klb.dev/clipy/internal/pins"
	"go.klb.dev/clipy/internal/pinstore"
	"go.klb.dev/clipy/internal/rpc"
)

// stopTimeout bounds the graceful RPC shutdown; open watch streams are cut
// after it.
const stopTimeout = 5 * time.Second

func newDaemonCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Watch the clipboard and serve the history",
		Long: `Starts the clipy daemon. It records clipboard changes into a bounded
history, keeps pinned entries in <data-dir>/pinned_items.json and serves
the other sub-commands over a local socket ($CLIPY_SOCKET,
$XDG_RUNTIME_DIR/clipy.sock or $TMPDIR/clipy.sock; \\.\pipe\clipy on Windows).

With --headless, or when no display is available, an in-process clipboard
is used: "clipy copy" still feeds the history.

Config file search order:
  /etc/clipy/clipy.toml
  $HOME/.config/clipy/clipy.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPY_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDaemon(v) },
	}

	f := cmd.Flags()
	f.String("data-dir", defaultDataDir(), "directory holding pinned_items.json")
	f.Int("history-size", history.DefaultCap, "number of history entries kept")
	f.Duration("debounce", ingest.DefaultDelay, "quiet period before a clipboard change is recorded")
	f.String("debounce-mode", string(ingest.ModeShared), "debounce timers: shared|per-channel")
	f.Bool("headless", false, "use the in-process clipboard instead of the system one")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(v *viper.Viper) error {
	closeLog, err := setupLogging(v)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	mode, err := ingest.ParseMode(v.GetString("debounce-mode"))
	if err != nil {
		return err
	}
	opts := ingest.Options{Delay: v.GetDuration("debounce"), Mode: mode}
	dataDir := v.GetString("data-dir")
	if dataDir == "" {
		dataDir = defaultDataDir()
	}

	slog.Info("clipy daemon starting",
		"version", Version,
		"data_dir", dataDir,
		"history_size", v.GetInt("history-size"),
		"debounce", opts.Delay,
		"debounce_mode", opts.Mode,
	)

	store := pinstore.New(afero.NewOsFs(), dataDir)
	loaded, err := store.Load()
	if err != nil {
		// Start with an empty pinned set; the next pin rewrites the file.
		slog.Error("pinned items unreadable, starting empty", "path", store.Path(), "err", err)
		loaded = nil
	} else {
		slog.Info("pinned items loaded", "path", store.Path(), "count", len(loaded))
	}

	writer := pinstore.NewWriter(store)
	defer writer.Close()

	b := board.New(history.New(v.GetInt("history-size")), pins.NewRegistry(loaded), writer)
	defer b.Close()

	var backend clip.Backend
	if v.GetBool("headless") {
		backend = clip.NewMemory()
	} else {
		backend = clip.New()
	}
	defer backend.Close()

	pipeline := ingest.New(backend, b, opts)
	channels, err := pipeline.Start()
	if err != nil {
		return err
	}
	defer pipeline.Close()
	if channels == 0 {
		slog.Warn("no clipboard channel available, history only grows through clipy copy")
	}

	ln, err := ipc.Listen()
	if err != nil {
		return err
	}
	slog.Info("IPC socket listening", "path", ipc.SocketPath())

	srv := rpc.NewServer(rpc.New(b, backend, rpc.Info{
		Version:      Version,
		Channels:     channels,
		PinFile:      store.Path(),
		Debounce:     opts.Delay,
		DebounceMode: string(opts.Mode),
		StartedAt:    time.Now(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("rpc serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("clipy daemon shutting down")
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(stopTimeout):
			slog.Warn("graceful stop timed out, closing streams")
			srv.Stop()
		}
		return nil
	})

	return g.Wait()
}
