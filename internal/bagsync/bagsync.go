// apps/wordbag/internal/bagsync/bagsync.go
//
// Sync orchestrator: keeps the canonical snapshot, words.js and the change
// logs consistent across one session.
//
// Bootstrap strategy (first success wins):
//   1. words.js present locally (possibly just downloaded) → decode it.
//      It overrides an existing snapshot.
//   2. Snapshot present → load it.
//   3. Generator configured → run it, then load the snapshot it produced.
//   4. Empty bag.
// After loading, the bag is persisted once and words.js is regenerated so
// both representations agree before the first interactive step.
//
// Mutation rule: every Add/Remove persists immediately. If the persist fails
// the in-memory change is rolled back, so memory never runs ahead of disk.

package bagsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordbag/internal/changelog"
	"github.com/robalobadob/wordle/apps/wordbag/internal/external"
	"github.com/robalobadob/wordle/apps/wordbag/internal/fileutil"
	"github.com/robalobadob/wordle/apps/wordbag/internal/scriptarray"
	"github.com/robalobadob/wordle/apps/wordbag/internal/store"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

var (
	// ErrExists is returned when adding a word already in the bag.
	ErrExists = errors.New("word already in bag")
	// ErrNotMember is returned when removing a word that is not in the bag.
	ErrNotMember = errors.New("word not in bag")
)

// Source identifies where Bootstrap found the bag.
type Source int

const (
	SourceEmpty Source = iota
	SourceScript
	SourceSnapshot
	SourceGenerator
)

func (s Source) String() string {
	switch s {
	case SourceScript:
		return "script"
	case SourceSnapshot:
		return "snapshot"
	case SourceGenerator:
		return "generator"
	}
	return "empty"
}

// Options wires the syncer to its storage and collaborators.
// Fetcher, Generator and Publisher are optional.
type Options struct {
	Snapshot   store.Snapshot
	ScriptPath string
	NewLog     *changelog.Log
	RemovedLog *changelog.Log

	Fetcher   external.Fetcher
	Generator external.Generator
	Publisher external.Publisher
}

// Syncer owns the in-memory bag for the duration of a session.
type Syncer struct {
	opts Options
	bag  words.Bag
}

// New returns a Syncer with an empty bag; call Bootstrap before use.
func New(opts Options) *Syncer {
	return &Syncer{opts: opts, bag: words.Bag{}}
}

// Bag exposes the live bag for read access.
func (s *Syncer) Bag() words.Bag { return s.bag }

// Has reports whether the normalized form of raw is in the bag.
func (s *Syncer) Has(raw string) bool { return s.bag.Has(words.Normalize(raw)) }

// Bootstrap fetches the remote words.js (best effort), loads the bag,
// persists it once and regenerates words.js.
func (s *Syncer) Bootstrap(ctx context.Context) (Source, error) {
	if s.opts.Fetcher != nil {
		if err := s.opts.Fetcher.Fetch(ctx, s.opts.ScriptPath); err != nil {
			log.Warn().Err(err).Msg("remote words.js unavailable, using local files")
		}
	}

	bag, src := s.load(ctx)
	s.bag = bag
	log.Info().Stringer("source", src).Int("count", bag.Len()).Msg("word bag loaded")

	if err := s.persist(ctx); err != nil {
		return src, err
	}
	if err := s.Regenerate(); err != nil {
		return src, err
	}
	return src, nil
}

func (s *Syncer) load(ctx context.Context) (words.Bag, Source) {
	if fileutil.Exists(s.opts.ScriptPath) {
		bag, err := scriptarray.ReadFile(s.opts.ScriptPath)
		if err == nil {
			return bag, SourceScript
		}
		log.Warn().Err(err).Str("path", s.opts.ScriptPath).Msg("cannot use words.js, trying snapshot")
	}

	if s.opts.Snapshot.Exists(ctx) {
		bag, err := s.opts.Snapshot.Load(ctx)
		if err == nil {
			return bag, SourceSnapshot
		}
		log.Warn().Err(err).Str("path", s.opts.Snapshot.Location()).Msg("cannot read snapshot")
	}

	if s.opts.Generator != nil {
		if err := s.opts.Generator.Generate(ctx); err != nil {
			log.Warn().Err(err).Msg("generator unavailable, starting with an empty bag")
		} else if bag, err := s.opts.Snapshot.Load(ctx); err == nil {
			return bag, SourceGenerator
		} else {
			log.Warn().Err(err).Msg("generator produced no usable snapshot")
		}
	}
	return words.Bag{}, SourceEmpty
}

func (s *Syncer) persist(ctx context.Context) error {
	if err := s.opts.Snapshot.Save(ctx, s.bag); err != nil {
		return fmt.Errorf("persist word bag: %w", err)
	}
	return nil
}

// Regenerate rewrites words.js from the current bag.
func (s *Syncer) Regenerate() error {
	if err := scriptarray.WriteFile(s.opts.ScriptPath, s.bag); err != nil {
		return fmt.Errorf("regenerate %s: %w", s.opts.ScriptPath, err)
	}
	return nil
}

// Add inserts raw (normalized) into the bag and persists it. It returns the
// normalized word. Length violations return words.ErrLength and leave the
// bag untouched.
func (s *Syncer) Add(ctx context.Context, sess *Session, raw string) (string, error) {
	w := words.Normalize(raw)
	if err := words.Validate(w); err != nil {
		return w, err
	}
	if !s.bag.Add(w) {
		return w, fmt.Errorf("%w: %s", ErrExists, w)
	}
	if err := s.persist(ctx); err != nil {
		s.bag.Remove(w)
		return w, err
	}
	sess.Added = append(sess.Added, w)
	s.afterMutation()
	log.Debug().Str("session", sess.ID).Str("word", w).Msg("added")
	return w, nil
}

// Remove deletes raw (normalized) from the bag and persists it.
func (s *Syncer) Remove(ctx context.Context, sess *Session, raw string) (string, error) {
	w := words.Normalize(raw)
	if !s.bag.Remove(w) {
		return w, fmt.Errorf("%w: %s", ErrNotMember, w)
	}
	if err := s.persist(ctx); err != nil {
		s.bag.Add(w)
		return w, err
	}
	sess.Removed = append(sess.Removed, w)
	s.afterMutation()
	log.Debug().Str("session", sess.ID).Str("word", w).Msg("removed")
	return w, nil
}

// afterMutation regenerates words.js. The snapshot is already durable, so a
// failure here only leaves the web copy stale until the next regeneration.
func (s *Syncer) afterMutation() {
	if err := s.Regenerate(); err != nil {
		log.Warn().Err(err).Msg("words.js not regenerated")
	}
}

// Summary describes a finished session.
type Summary struct {
	Added      []string
	Removed    []string
	BagSize    int
	Published  bool
	PublishErr error
	Elapsed    time.Duration
}

// Finish flushes the session's change buffers to the logs, regenerates
// words.js one last time and publishes it. Publish failures are recorded in
// the summary but never returned as errors.
func (s *Syncer) Finish(ctx context.Context, sess *Session) (Summary, error) {
	sum := Summary{
		Added:   sess.Added,
		Removed: sess.Removed,
		BagSize: s.bag.Len(),
		Elapsed: time.Since(sess.Started),
	}
	var errs []error

	if sess.Additions() > 0 && s.opts.NewLog != nil {
		if err := s.opts.NewLog.Append(sess.Added...); err != nil {
			errs = append(errs, err)
		}
	}
	if sess.Removals() > 0 && s.opts.RemovedLog != nil {
		if err := s.opts.RemovedLog.Append(sess.Removed...); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.Regenerate(); err != nil {
		errs = append(errs, err)
	}

	if s.opts.Publisher != nil {
		if err := s.opts.Publisher.Publish(ctx, s.opts.ScriptPath); err != nil {
			log.Warn().Err(err).Msg("words.js not published")
			sum.PublishErr = err
		} else {
			sum.Published = true
		}
	}

	log.Info().
		Str("session", sess.ID).
		Int("added", sess.Additions()).
		Int("removed", sess.Removals()).
		Int("count", sum.BagSize).
		Dur("elapsed", sum.Elapsed).
		Msg("session finished")
	return sum, errors.Join(errs...)
}
