package pinstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipy/internal/item"
)

const dataDir = "/home/user/.config/clipy"

func pinnedItem(c item.Content) item.Item {
	it := item.New(c, time.Now())
	it.Pinned = true
	return it
}

func TestLoadMissingFileCreatesDirOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, dataDir)

	items, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, items)

	dirOK, err := afero.DirExists(fs, dataDir)
	require.NoError(t, err)
	assert.True(t, dirOK)

	fileOK, err := afero.Exists(fs, s.Path())
	require.NoError(t, err)
	assert.False(t, fileOK)
}

func TestLoadParseFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, dataDir)
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte("{not json"), 0o644))

	items, err := s.Load()
	assert.Error(t, err)
	assert.Empty(t, items)
}

func TestSaveCreatesDirectoryAndOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, dataDir)

	require.NoError(t, s.Save([]item.Item{pinnedItem(item.Text("a")), pinnedItem(item.Text("b"))}))
	require.NoError(t, s.Save([]item.Item{pinnedItem(item.Text("c"))}))

	data, err := afero.ReadFile(fs, s.Path())
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "c", raw[0]["content"])
	assert.Equal(t, "text", raw[0]["type"])
	assert.Equal(t, true, raw[0]["isPinned"])
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, dataDir)
	require.NoError(t, s.Save(nil))

	data, err := afero.ReadFile(fs, s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, dataDir)
	want := []item.Item{
		pinnedItem(item.Text("hello")),
		pinnedItem(item.Image("iVBORw0KGgo=")),
		pinnedItem(item.Files{"/tmp/a.txt", "/tmp/b.txt"}),
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, records(want), records(got))
}

type rec struct {
	id     string
	kind   item.Kind
	body   string
	millis int64
	pinned bool
}

func records(items []item.Item) []rec {
	out := make([]rec, len(items))
	for i, it := range items {
		body, _ := json.Marshal(it.Content)
		out[i] = rec{it.ID, it.Kind(), string(body), it.CapturedAt.UnixMilli(), it.Pinned}
	}
	return out
}

func TestSaveOnReadOnlyFsFails(t *testing.T) {
	s := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), dataDir)
	assert.Error(t, s.Save([]item.Item{pinnedItem(item.Text("x"))}))
}
