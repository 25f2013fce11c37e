// Package message defines the clipy RPC payloads.
//
// Every request and response is a plain struct encoded as JSON. Items use
// the same record shape as the pin file; images travel as base64 PNG.
package message

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.klb.dev/clipy/internal/item"
)

// ListRequest asks for the filtered view. Filter is "all", "text",
// "image" or "files"; empty means all.
type ListRequest struct {
	Filter string `json:"filter,omitempty"`
}

type ListResponse struct {
	Items []item.Item `json:"items"`
}

// ItemRequest names an item by full ID or unique ID prefix.
type ItemRequest struct {
	ID string `json:"id"`
}

type ItemResponse struct {
	Item item.Item `json:"item"`
}

// Empty is used where a call has nothing to say.
type Empty struct{}

// CopyRequest puts new content on the clipboard. Type selects which of
// Text, Image (base64 PNG) or Files is used.
type CopyRequest struct {
	Type  string   `json:"type"`
	Text  string   `json:"text,omitempty"`
	Image string   `json:"image,omitempty"`
	Files []string `json:"files,omitempty"`
}

// NewTextCopy creates a text CopyRequest.
func NewTextCopy(text string) CopyRequest {
	return CopyRequest{Type: string(item.KindText), Text: text}
}

// NewImageCopy creates an image CopyRequest from raw PNG bytes.
func NewImageCopy(png []byte) CopyRequest {
	return CopyRequest{Type: string(item.KindImage), Image: base64.StdEncoding.EncodeToString(png)}
}

// NewFilesCopy creates a file-list CopyRequest.
func NewFilesCopy(paths []string) CopyRequest {
	return CopyRequest{Type: string(item.KindFiles), Files: paths}
}

// Content validates r and returns the content it carries.
func (r CopyRequest) Content() (item.Content, error) {
	kind, err := item.ParseKind(r.Type)
	if err != nil {
		return nil, err
	}
	switch kind {
	case item.KindText:
		if r.Text == "" {
			return nil, errors.New("copy: empty text")
		}
		return item.Text(r.Text), nil
	case item.KindImage:
		if r.Image == "" {
			return nil, errors.New("copy: empty image")
		}
		if _, err := base64.StdEncoding.DecodeString(r.Image); err != nil {
			return nil, fmt.Errorf("copy: image is not base64: %w", err)
		}
		return item.Image(r.Image), nil
	default:
		if len(r.Files) == 0 {
			return nil, errors.New("copy: empty file list")
		}
		for _, p := range r.Files {
			if !filepath.IsAbs(p) {
				return nil, fmt.Errorf("copy: %q is not an absolute path", p)
			}
		}
		return item.Files(r.Files), nil
	}
}

type StatusRequest struct{}

// StatusResponse describes a running daemon.
type StatusResponse struct {
	Version      string        `json:"version"`
	Backend      string        `json:"backend"`
	Channels     int           `json:"channels"`
	HistoryLen   int           `json:"history_len"`
	HistoryCap   int           `json:"history_cap"`
	Pinned       int           `json:"pinned"`
	Watchers     int           `json:"watchers"`
	PinFile      string        `json:"pin_file"`
	Debounce     time.Duration `json:"debounce"`
	DebounceMode string        `json:"debounce_mode"`
	StartedAt    time.Time     `json:"started_at"`
}

// WatchRequest opens an event stream, optionally restricted to one kind.
type WatchRequest struct {
	Filter string `json:"filter,omitempty"`
}

// Event is one board change on a Watch stream.
type Event struct {
	Type string    `json:"type"`
	Item item.Item `json:"item"`
}
