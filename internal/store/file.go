package store

import (
	"context"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/robalobadob/wordle/apps/wordbag/internal/fileutil"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

// snapshotVersion is bumped whenever the on-disk container changes shape.
const snapshotVersion uint32 = 1

// container is the msgpack document written to disk.
type container struct {
	Version uint32   `msgpack:"version"` // Serialization format version
	Words   []string `msgpack:"words"`   // Sorted word list
}

// FileSnapshot stores the bag as a msgpack file.
type FileSnapshot struct {
	path string
}

// NewFileSnapshot returns a snapshot backed by the file at path.
func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (f *FileSnapshot) Location() string { return f.path }

func (f *FileSnapshot) Exists(ctx context.Context) bool {
	return fileutil.Exists(f.path)
}

func (f *FileSnapshot) Load(ctx context.Context) (words.Bag, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if fileutil.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var c container
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	if c.Version > snapshotVersion {
		return nil, fmt.Errorf("%w: %s: unsupported version %d", ErrCorrupt, f.path, c.Version)
	}
	return words.NewBag(c.Words...), nil
}

func (f *FileSnapshot) Save(ctx context.Context, b words.Bag) error {
	data, err := msgpack.Marshal(container{Version: snapshotVersion, Words: b.Sorted()})
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", ErrIO, err)
	}
	if err := fileutil.WriteAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, f.path, err)
	}
	return nil
}
