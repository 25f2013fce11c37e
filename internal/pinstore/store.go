// Package pinstore persists the pinned set as a single JSON document.
//
// The whole file is rewritten on every save: there are no incremental
// writes, no atomic rename and no schema version. Store does the file I/O;
// Writer runs it on a single background goroutine so callers never block on
// disk.
package pinstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"go.klb.dev/clipy/internal/item"
)

// FileName is the name of the pinned-items file inside the data directory.
const FileName = "pinned_items.json"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store reads and writes the pinned-items file in dir on fs.
type Store struct {
	fs  afero.Fs
	dir string
}

// New returns a Store for dir on fs. Nothing is touched until Load or Save.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Path returns the full path of the pinned-items file.
func (s *Store) Path() string { return filepath.Join(s.dir, FileName) }

// Load reads the pinned set. A missing file is not an error: the data
// directory is created and an empty set returned. The file itself is only
// created by the next Save.
func (s *Store) Load() ([]item.Item, error) {
	path := s.Path()
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("pinstore: stat %s: %w", path, err)
	}
	if !ok {
		slog.Debug("pinned items file does not exist", "path", path)
		if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
			return nil, fmt.Errorf("pinstore: create %s: %w", s.dir, err)
		}
		return nil, nil
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("pinstore: read %s: %w", path, err)
	}
	var items []item.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("pinstore: parse %s: %w", path, err)
	}
	return items, nil
}

// Save overwrites the pinned-items file with items, creating the data
// directory first if it is missing.
func (s *Store) Save(items []item.Item) error {
	ok, err := afero.DirExists(s.fs, s.dir)
	if err != nil {
		return fmt.Errorf("pinstore: stat %s: %w", s.dir, err)
	}
	if !ok {
		if err := s.fs.MkdirAll(s.dir, dirPerm); err != nil {
			return fmt.Errorf("pinstore: create %s: %w", s.dir, err)
		}
	}

	if items == nil {
		items = []item.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("pinstore: encode: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(), data, filePerm); err != nil {
		return fmt.Errorf("pinstore: write %s: %w", s.Path(), err)
	}
	return nil
}
