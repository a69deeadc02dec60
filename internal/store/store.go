// apps/wordbag/internal/store/store.go
//
// Canonical Store: persistence for the word bag snapshot.
//
// Backends (all implement Snapshot):
//   - FileSnapshot:   msgpack document on disk (default, "bolsa.bin").
//   - SQLiteSnapshot: one-table SQLite database ("bolsa.db").
//   - MemorySnapshot: in-process map, used by tests and dry runs.
//
// Guarantees:
//   • Save fully replaces prior content; a failed Save leaves the previous
//     snapshot intact.
//   • Load on a missing snapshot returns ErrNoSnapshot, never a partial bag.
//   • Contents are not validated in either direction.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

var (
	// ErrNoSnapshot is returned by Load when nothing has been persisted yet.
	ErrNoSnapshot = errors.New("store: no snapshot")
	// ErrIO wraps write failures surfaced by Save.
	ErrIO = errors.New("store: i/o error")
	// ErrCorrupt is returned when a snapshot exists but cannot be decoded.
	ErrCorrupt = errors.New("store: corrupt snapshot")
)

// Snapshot defines the persistence interface for the bag.
// Implementations may be backed by a file, SQLite or memory.
type Snapshot interface {
	// Exists reports whether a snapshot has been persisted.
	Exists(ctx context.Context) bool

	// Load reads the persisted bag.
	Load(ctx context.Context) (words.Bag, error)

	// Save replaces the persisted bag with b.
	Save(ctx context.Context, b words.Bag) error

	// Location describes where the snapshot lives (for logs).
	Location() string
}

// Backend names accepted by Open.
const (
	BackendMsgpack = "msgpack"
	BackendSQLite  = "sqlite"
	BackendMemory  = "memory"
)

// Open returns the Snapshot for the named backend at path.
func Open(backend, path string) (Snapshot, error) {
	switch strings.ToLower(backend) {
	case "", BackendMsgpack:
		return NewFileSnapshot(path), nil
	case BackendSQLite:
		return NewSQLiteSnapshot(path), nil
	case BackendMemory:
		return NewMemorySnapshot(), nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", backend)
}
