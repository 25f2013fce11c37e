// Package clip provides a unified interface to the system clipboard across
// platforms. Build constraints select the implementation:
//
//	clip_system.go: Linux, macOS and Windows via golang.design/x/clipboard
//	clip_other.go:  everything else: the in-process Memory backend
//
// When the system clipboard cannot be initialised (no display server, a
// container) New falls back to Memory as well, which keeps "clipy copy"
// usable on headless hosts.
package clip

import (
	"encoding/base64"
	"errors"
	"fmt"

	"go.klb.dev/clipy/internal/item"
)

// Channel names one clipboard notification stream.
type Channel string

const (
	ChannelText     Channel = "text"
	ChannelRichText Channel = "rich-text"
	ChannelImage    Channel = "image"
	ChannelFiles    Channel = "files"
	ChannelChange   Channel = "change"
)

// ErrUnsupported is returned when a backend cannot deliver a channel or
// write a format.
var ErrUnsupported = errors.New("clip: not supported by this backend")

// Unsubscribe releases a subscription. It is safe to call more than once.
type Unsubscribe func()

// Backend is the interface that all clipboard implementations satisfy.
//
// Callbacks run on backend-owned goroutines at arbitrary times. A
// subscription that fails leaves that channel inactive; the others are
// unaffected.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	OnText(fn func(text string)) (Unsubscribe, error)
	OnRichText(fn func(rtf string)) (Unsubscribe, error)
	// OnImage delivers images as base64-encoded PNG.
	OnImage(fn func(b64 string)) (Unsubscribe, error)
	OnFiles(fn func(paths []string)) (Unsubscribe, error)
	// OnChange fires after any clipboard change, whatever its format.
	OnChange(fn func()) (Unsubscribe, error)

	WriteText(text string) error
	WriteImageBase64(b64 string) error
	WriteFiles(paths []string) error

	// Close releases all subscriptions and resources held by the backend.
	Close()
}

// Restore puts c back onto the clipboard.
func Restore(b Backend, c item.Content) error {
	switch v := c.(type) {
	case item.Text:
		return b.WriteText(string(v))
	case item.Image:
		if _, err := base64.StdEncoding.DecodeString(string(v)); err != nil {
			return fmt.Errorf("clip: image payload: %w", err)
		}
		return b.WriteImageBase64(string(v))
	case item.Files:
		return b.WriteFiles(v)
	default:
		return fmt.Errorf("clip: restore %T: %w", c, ErrUnsupported)
	}
}
