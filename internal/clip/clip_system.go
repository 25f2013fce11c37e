//go:build linux || darwin || windows

package clip

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

type systemBackend struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns the system clipboard backend, or the in-process Memory
// backend if the display environment is unavailable (e.g. a headless server
// without X11 or Wayland). clipboard.Init is called here rather than in
// init() so that CLI sub-commands (list, pin, status) don't trigger the
// warning.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return NewMemory()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &systemBackend{ctx: ctx, cancel: cancel}
}

func (b *systemBackend) Name() string { return "system clipboard" }

// watch runs fn for every change of format until the subscription or the
// backend is cancelled. clipboard.Watch only reports non-empty data.
func (b *systemBackend) watch(format clipboard.Format, fn func([]byte)) Unsubscribe {
	ctx, cancel := context.WithCancel(b.ctx)
	ch := clipboard.Watch(ctx, format)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for data := range ch {
			fn(data)
		}
	}()
	return Unsubscribe(cancel)
}

func (b *systemBackend) OnText(fn func(string)) (Unsubscribe, error) {
	return b.watch(clipboard.FmtText, func(data []byte) { fn(string(data)) }), nil
}

func (b *systemBackend) OnRichText(func(string)) (Unsubscribe, error) {
	return nil, fmt.Errorf("clip: rich text: %w", ErrUnsupported)
}

func (b *systemBackend) OnImage(fn func(string)) (Unsubscribe, error) {
	return b.watch(clipboard.FmtImage, func(data []byte) {
		fn(base64.StdEncoding.EncodeToString(data))
	}), nil
}

func (b *systemBackend) OnFiles(func([]string)) (Unsubscribe, error) {
	return nil, fmt.Errorf("clip: file lists: %w", ErrUnsupported)
}

func (b *systemBackend) OnChange(fn func()) (Unsubscribe, error) {
	stopText := b.watch(clipboard.FmtText, func([]byte) { fn() })
	stopImage := b.watch(clipboard.FmtImage, func([]byte) { fn() })
	return func() {
		stopText()
		stopImage()
	}, nil
}

func (b *systemBackend) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (b *systemBackend) WriteImageBase64(b64 string) error {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("clip: decode image: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

// WriteFiles puts the paths on the clipboard as newline-separated text;
// the underlying library has no file-list format.
func (b *systemBackend) WriteFiles(paths []string) error {
	clipboard.Write(clipboard.FmtText, []byte(strings.Join(paths, "\n")))
	return nil
}

func (b *systemBackend) Close() {
	b.cancel()
	b.wg.Wait()
}
