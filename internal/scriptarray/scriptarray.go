// apps/wordbag/internal/scriptarray/scriptarray.go
//
// Codec between the word bag and the web front-end's words.js.
//
// The document contains one declaration:
//
//	const WORDS = ["gallo","perro"];
//
// Decode is tolerant about layout (quotes, whitespace, pretty-printing)
// but agnostic about content: it lowercases and trims strings and does not
// check word length. Encode always emits the compact single-line form, in
// sorted order so that unchanged bags produce byte-identical files.

package scriptarray

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/wordbag/internal/fileutil"
	"github.com/robalobadob/wordle/apps/wordbag/internal/literal"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

// Marker is the prefix of the declaration line.
const Marker = "const WORDS = "

// ErrParse is wrapped when the declaration is missing or malformed.
var ErrParse = errors.New("scriptarray: parse error")

// Decode extracts the word set from a words.js document. On failure it
// returns an empty (non-nil) bag together with an error wrapping ErrParse.
func Decode(text string) (words.Bag, error) {
	body, ok := findDeclaration(text)
	if !ok {
		return words.Bag{}, fmt.Errorf("%w: no %q declaration", ErrParse, strings.TrimSpace(Marker))
	}
	vals, n, err := literal.Scan(body)
	if err != nil {
		return words.Bag{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	// The statement may end with ';', a comment or a line break.
	rest := body[n:]
	skip, brk := literal.SkipSpace(rest)
	if rest = rest[skip:]; rest != "" && rest[0] != ';' && !brk {
		return words.Bag{}, fmt.Errorf("%w: unexpected %q after array", ErrParse, firstLine(rest))
	}

	bag := words.Bag{}
	for _, w := range literal.Strings(vals) {
		bag[words.Normalize(w)] = struct{}{}
	}
	return bag, nil
}

// Encode renders the bag as a words.js document.
func Encode(bag words.Bag) string {
	return Marker + literal.Format(bag.Sorted(), '"', ",") + ";"
}

// ReadFile decodes the document stored at path. A missing file is reported
// as an fs.ErrNotExist error, not as ErrParse.
func ReadFile(path string) (words.Bag, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return words.Bag{}, err
	}
	return Decode(string(b))
}

// WriteFile regenerates the document at path, replacing it atomically.
func WriteFile(path string, bag words.Bag) error {
	return fileutil.WriteAtomic(path, []byte(Encode(bag)), 0o644)
}

// findDeclaration returns the text following the marker on the first line
// whose trimmed form starts with it. The remainder of the document is
// included so that arrays spanning several lines can be parsed.
func findDeclaration(text string) (string, bool) {
	for offset := 0; offset < len(text); {
		line := text[offset:]
		end := strings.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		trimmed := strings.TrimLeft(line, " \t\ufeff")
		if strings.HasPrefix(trimmed, Marker) {
			return text[offset+len(line)-len(trimmed)+len(Marker):], true
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return "", false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
