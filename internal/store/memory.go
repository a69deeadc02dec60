// apps/wordbag/internal/store/memory.go
//
// In-memory implementation of the Snapshot interface.
// Used by tests and by dry runs where nothing should touch the disk.
//
// Characteristics:
//   - Holds a private copy of the last saved bag (callers cannot mutate it).
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - FailSaves lets tests simulate a write failure.

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

// MemorySnapshot is a map-based Snapshot implementation.
type MemorySnapshot struct {
	mu    sync.RWMutex // guards bag and saves
	bag   words.Bag    // nil until the first Save
	saves int

	// FailSaves makes Save return an ErrIO error when set.
	FailSaves bool
}

// NewMemorySnapshot constructs an empty in-memory Snapshot.
func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

func (m *MemorySnapshot) Location() string { return "memory" }

func (m *MemorySnapshot) Exists(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bag != nil
}

// Load returns a copy of the stored bag, or ErrNoSnapshot if none was saved.
func (m *MemorySnapshot) Load(ctx context.Context) (words.Bag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.bag == nil {
		return nil, ErrNoSnapshot
	}
	return m.bag.Clone(), nil
}

// Save replaces the stored bag with a copy of b.
func (m *MemorySnapshot) Save(ctx context.Context, b words.Bag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return fmt.Errorf("%w: simulated failure", ErrIO)
	}
	m.bag = b.Clone()
	m.saves++
	return nil
}

// Saves reports how many successful saves happened.
func (m *MemorySnapshot) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
