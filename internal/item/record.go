package item

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// record is the JSON shape of an Item.
type record struct {
	ID        string          `json:"id,omitempty"`
	Type      Kind            `json:"type"`
	Content   json.RawMessage `json:"content"`
	Timestamp int64           `json:"timestamp"`
	IsPinned  bool            `json:"isPinned"`
}

// MarshalJSON implements json.Marshaler.
func (it Item) MarshalJSON() ([]byte, error) {
	var (
		raw []byte
		err error
	)
	switch v := it.Content.(type) {
	case Text:
		raw, err = json.Marshal(string(v))
	case Image:
		raw, err = json.Marshal(string(v))
	case Files:
		if v == nil {
			v = Files{}
		}
		raw, err = json.Marshal([]string(v))
	default:
		return nil, fmt.Errorf("item %s: no content", it.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("item %s: encode content: %w", it.ID, err)
	}
	return json.Marshal(record{
		ID:        it.ID,
		Type:      it.Kind(),
		Content:   raw,
		Timestamp: it.CapturedAt.UnixMilli(),
		IsPinned:  it.Pinned,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Records without an id, as
// written by older versions, are assigned a fresh one.
func (it *Item) UnmarshalJSON(b []byte) error {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return fmt.Errorf("item decode: %w", err)
	}

	var c Content
	switch r.Type {
	case KindText, KindImage:
		var s string
		if err := json.Unmarshal(r.Content, &s); err != nil {
			return fmt.Errorf("item decode %s content: %w", r.Type, err)
		}
		if r.Type == KindText {
			c = Text(s)
		} else {
			c = Image(s)
		}
	case KindFiles:
		var paths []string
		if err := json.Unmarshal(r.Content, &paths); err != nil {
			return fmt.Errorf("item decode files content: %w", err)
		}
		c = Files(paths)
	default:
		return fmt.Errorf("item decode: unknown type %q", r.Type)
	}

	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	*it = Item{
		ID:         id,
		Content:    c,
		CapturedAt: time.UnixMilli(r.Timestamp),
		Pinned:     r.IsPinned,
	}
	return nil
}
