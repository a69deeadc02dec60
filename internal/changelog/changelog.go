// Package changelog keeps the append-only records of words added to and
// removed from the bag ("nuevas.log" and "elim.log").
//
// Each file holds one literal sequence covering every session so far:
//
//	['manga', 'perro', 'gatos']
//
// Appending parses the prior content and rewrites the file with the merged
// sequence. Entries are never deduplicated: a word may be added, removed and
// added again over time.
package changelog

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordbag/internal/fileutil"
	"github.com/robalobadob/wordle/apps/wordbag/internal/literal"
)

// ErrIO wraps failures to write a log file.
var ErrIO = errors.New("changelog: i/o error")

// Log is one change log file.
type Log struct {
	path string
}

// New returns the log stored at path. The file is created lazily.
func New(path string) *Log { return &Log{path: path} }

// Path returns the file location.
func (l *Log) Path() string { return l.path }

// Entries returns the recorded words in order. A missing file yields an
// empty slice. Quoted strings and bare identifiers both count as entries,
// so hand-written logs like [manga, perro] are accepted.
func (l *Log) Entries() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if fileutil.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	vals, err := literal.Parse(string(data))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v.Kind == literal.String || v.Kind == literal.Ident {
			out = append(out, v.Text)
		}
	}
	return out, nil
}

// Append adds entries to the end of the log. Calling it with no entries
// leaves the file untouched.
//
// A log that exists but cannot be parsed is moved aside to <path>.corrupt
// and the merge starts from an empty sequence.
func (l *Log) Append(entries ...string) error {
	if len(entries) == 0 {
		return nil
	}
	prior, err := l.Entries()
	if err != nil {
		if !errors.Is(err, literal.ErrSyntax) {
			return fmt.Errorf("%w: read %s: %v", ErrIO, l.path, err)
		}
		aside := l.path + ".corrupt"
		log.Warn().Err(err).Str("path", l.path).Str("moved_to", aside).Msg("unreadable change log, starting over")
		if err := os.Rename(l.path, aside); err != nil {
			return fmt.Errorf("%w: move aside %s: %v", ErrIO, l.path, err)
		}
		prior = nil
	}

	merged := make([]string, 0, len(prior)+len(entries))
	merged = append(merged, prior...)
	merged = append(merged, entries...)
	if err := fileutil.WriteAtomic(l.path, []byte(Format(merged)), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, l.path, err)
	}
	log.Debug().Str("path", l.path).Int("appended", len(entries)).Int("total", len(merged)).Msg("change log updated")
	return nil
}

// Format renders entries in the on-disk form.
func Format(entries []string) string {
	return literal.Format(entries, '\'', ", ")
}
