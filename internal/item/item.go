// Package item defines the clipboard history entry and its on-disk form.
//
// Content is a closed sum type: Text, Image and Files are the only
// implementations, so switches over it are exhaustive and equality is
// type-checked. Items are persisted as a JSON array of records:
//
//	{"id": "...", "type": "text", "content": "hello", "timestamp": 1700000000000, "isPinned": true}
//
// "content" is a string for text and image items and an array of strings
// for file lists.
package item

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the variant of an item's content.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindFiles Kind = "files"
)

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindText, KindImage, KindFiles:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Content is the payload of a captured item.
type Content interface {
	Kind() Kind
	content()
}

// Text is plain text. Rich text is stored here in its serialized form.
type Text string

// Image is a base64-encoded PNG.
type Image string

// Files is an ordered list of absolute paths.
type Files []string

func (Text) Kind() Kind  { return KindText }
func (Image) Kind() Kind { return KindImage }
func (Files) Kind() Kind { return KindFiles }

func (Text) content()  {}
func (Image) content() {}
func (Files) content() {}

// Equal reports whether a and b hold the same kind and the same payload.
// File lists compare element-wise in order.
func Equal(a, b Content) bool {
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Image:
		bv, ok := b.(Image)
		return ok && av == bv
	case Files:
		bv, ok := b.(Files)
		return ok && slices.Equal(av, bv)
	default:
		return a == nil && b == nil
	}
}

// IsEmpty reports whether c carries no data worth capturing.
func IsEmpty(c Content) bool {
	switch v := c.(type) {
	case Text:
		return v == ""
	case Image:
		return v == ""
	case Files:
		return len(v) == 0
	default:
		return true
	}
}

// Item is one entry of the clipboard history.
type Item struct {
	ID         string
	Content    Content
	CapturedAt time.Time
	Pinned     bool
}

// New returns an unpinned item for c with a fresh ID. The capture time is
// truncated to millisecond precision, which is what survives persistence.
func New(c Content, now time.Time) Item {
	return Item{
		ID:         uuid.NewString(),
		Content:    c,
		CapturedAt: now.Truncate(time.Millisecond),
	}
}

// Kind returns the kind of the item's content.
func (it Item) Kind() Kind {
	if it.Content == nil {
		return ""
	}
	return it.Content.Kind()
}

// Preview returns a one-line human-readable summary of the content. Text
// longer than limit runes is cut and marked with an ellipsis.
func (it Item) Preview(limit int) string {
	switch v := it.Content.(type) {
	case Text:
		s := strings.Join(strings.Fields(string(v)), " ")
		if r := []rune(s); len(r) > limit {
			return string(r[:limit]) + "…"
		}
		return s
	case Image:
		return fmt.Sprintf("image (%d bytes base64)", len(v))
	case Files:
		if len(v) == 1 {
			return v[0]
		}
		return fmt.Sprintf("%d files: %s", len(v), strings.Join(v, ", "))
	default:
		return ""
	}
}

// Clone returns a copy of it that shares no mutable state with the original.
func (it Item) Clone() Item {
	if f, ok := it.Content.(Files); ok {
		it.Content = slices.Clone(f)
	}
	return it
}
