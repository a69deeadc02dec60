package bagsync

import (
	"time"

	"github.com/google/uuid"
)

// Session holds the per-run state: what was added and removed, in order.
// The counters the console shows are the buffer lengths.
type Session struct {
	ID      string
	Started time.Time
	Added   []string
	Removed []string
}

// NewSession starts a session with a fresh ID.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), Started: time.Now()}
}

func (s *Session) Additions() int { return len(s.Added) }
func (s *Session) Removals() int  { return len(s.Removed) }
