package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipy/internal/item"
)

func TestCopyRequestContent(t *testing.T) {
	c, err := NewTextCopy("hi").Content()
	require.NoError(t, err)
	assert.Equal(t, item.Text("hi"), c)

	c, err = NewImageCopy([]byte("png")).Content()
	require.NoError(t, err)
	assert.Equal(t, item.Image("cG5n"), c)

	c, err = NewFilesCopy([]string{"/tmp/a"}).Content()
	require.NoError(t, err)
	assert.Equal(t, item.Files{"/tmp/a"}, c)
}

func TestCopyRequestRejects(t *testing.T) {
	for name, req := range map[string]CopyRequest{
		"unknown type":  {Type: "audio", Text: "x"},
		"empty text":    NewTextCopy(""),
		"empty image":   {Type: "image"},
		"bad base64":    {Type: "image", Image: "%%%"},
		"no files":      NewFilesCopy(nil),
		"relative path": NewFilesCopy([]string{"notes.txt"}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := req.Content()
			assert.Error(t, err)
		})
	}
}

func TestEventEncodesItemRecord(t *testing.T) {
	it := item.New(item.Text("x"), time.UnixMilli(1700000000000))
	b, err := json.Marshal(Event{Type: "captured", Item: it})
	require.NoError(t, err)

	var back Event
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "captured", back.Type)
	assert.Equal(t, it.ID, back.Item.ID)
	assert.Equal(t, item.Text("x"), back.Item.Content)
}
