// apps/wordbag/internal/words/words.go
//
// Word rules and the Bag set used as the answer pool.
//
// Responsibilities:
//   - Normalize raw user/file input into canonical tokens (trim, lowercase, NFC).
//   - Enforce the fixed word length (5 runes) on insertion paths.
//   - Provide Bag, a plain set of words with deterministic listing.
//
// Constraints:
//   • Length is counted in runes, not bytes ("ñandú" is 5 letters).
//   • Only the length is validated; spelling is never checked.
//   • Bag is not safe for concurrent use (the tool is single-threaded).

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Length is the number of letters every playable word must have.
const Length = 5

// ErrLength is returned when a candidate word does not have Length letters.
var ErrLength = errors.New("words: word must have exactly 5 letters")

// Normalize trims, lowercases and NFC-composes s so that decomposed
// accents ("n" + U+0303) compare equal to their precomposed form.
func Normalize(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// RuneLen reports the number of letters in an already normalized word.
func RuneLen(w string) int { return utf8.RuneCountInString(w) }

// Validate checks the fixed-length rule on a normalized word.
func Validate(w string) error {
	if n := RuneLen(w); n != Length {
		return fmt.Errorf("%w: %q has %d", ErrLength, w, n)
	}
	return nil
}

// Bag is the canonical set of game words.
type Bag map[string]struct{}

// NewBag builds a bag from the given words as-is (no normalization).
func NewBag(list ...string) Bag {
	b := make(Bag, len(list))
	for _, w := range list {
		b[w] = struct{}{}
	}
	return b
}

// Has reports membership.
func (b Bag) Has(w string) bool {
	_, ok := b[w]
	return ok
}

// Add inserts w and reports whether it was new.
func (b Bag) Add(w string) bool {
	if b.Has(w) {
		return false
	}
	b[w] = struct{}{}
	return true
}

// Remove deletes w and reports whether it was present.
func (b Bag) Remove(w string) bool {
	if !b.Has(w) {
		return false
	}
	delete(b, w)
	return true
}

// Len returns the number of words.
func (b Bag) Len() int { return len(b) }

// Sorted returns the words in lexical order.
func (b Bag) Sorted() []string {
	out := make([]string, 0, len(b))
	for w := range b {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of b.
func (b Bag) Clone() Bag {
	c := make(Bag, len(b))
	for w := range b {
		c[w] = struct{}{}
	}
	return c
}

// Equal reports whether both bags hold the same words.
func (b Bag) Equal(o Bag) bool {
	if len(b) != len(o) {
		return false
	}
	for w := range b {
		if !o.Has(w) {
			return false
		}
	}
	return true
}

// ParseLines reads one word per line, normalizing each and skipping blank
// lines and "#" comments. Lines that fail the length rule are dropped.
func ParseLines(r io.Reader) (Bag, error) {
	out := Bag{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := Normalize(line)
		if Validate(w) == nil {
			out[w] = struct{}{}
		}
	}
	return out, sc.Err()
}
