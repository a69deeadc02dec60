// Package literal parses array-like literals of strings such as
//
//	["gallo", 'perro', /* comment */ "gatos",]
//
// It is the one parser shared by the words.js codec and the change logs.
// Strings may use single or double quotes; whitespace, newlines, comments
// and a trailing comma are tolerated. Elements that are not strings
// (numbers, bare identifiers, nested arrays) are still parsed so callers
// can decide whether to keep or drop them.
package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("literal: syntax error")

// Kind classifies an element.
type Kind int

const (
	String Kind = iota
	Number
	Ident
	Array
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Ident:
		return "ident"
	case Array:
		return "array"
	}
	return "unknown"
}

// Value is one parsed element.
type Value struct {
	Kind  Kind
	Text  string  // decoded string, number text or identifier
	Items []Value // only for Array
}

// Parse parses src as a single array literal. Only whitespace and comments
// may follow the closing bracket.
func Parse(src string) ([]Value, error) {
	vals, n, err := Scan(src)
	if err != nil {
		return nil, err
	}
	p := parser{src: src, pos: n}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after array", p.src[p.pos:p.pos+1])
	}
	return vals, nil
}

// Scan parses the array literal at the start of src (after optional
// whitespace) and returns the elements plus the number of bytes consumed.
func Scan(src string) ([]Value, int, error) {
	p := parser{src: src}
	p.skipSpace()
	v, err := p.array()
	if err != nil {
		return nil, 0, err
	}
	return v.Items, p.pos, nil
}

// SkipSpace returns the offset of the first byte of src that is neither
// whitespace nor a comment, and whether a line break was skipped on the way.
func SkipSpace(src string) (int, bool) {
	p := parser{src: src}
	p.skipSpace()
	return p.pos, strings.ContainsAny(src[:p.pos], "\n\r")
}

// Strings returns the String elements of vals in order.
func Strings(vals []Value) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v.Kind == String {
			out = append(out, v.Text)
		}
	}
	return out
}

// Quote renders s as a literal in the given quote character (' or ").
func Quote(s string, q byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// Format renders items as a bracketed sequence using quote q and separator sep.
func Format(items []string, q byte, sep string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(Quote(s, q))
	}
	b.WriteByte(']')
	return b.String()
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// skipSpace skips whitespace plus // and /* */ comments.
func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		switch {
		case unicode.IsSpace(r):
			p.pos += size
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *parser) array() (Value, error) {
	if p.peek() != '[' {
		if p.pos >= len(p.src) {
			return Value{}, p.errorf("expected '[' but input ended")
		}
		return Value{}, p.errorf("expected '[' but found %q", p.src[p.pos:p.pos+1])
	}
	p.pos++
	arr := Value{Kind: Array, Items: []Value{}}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return arr, nil
		}
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		arr.Items = append(arr.Items, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		case 0:
			return Value{}, p.errorf("unterminated array")
		default:
			return Value{}, p.errorf("expected ',' or ']' but found %q", p.src[p.pos:p.pos+1])
		}
	}
}

func (p *parser) value() (Value, error) {
	c := p.peek()
	switch {
	case c == '"' || c == '\'':
		s, err := p.str(c)
		return Value{Kind: String, Text: s}, err
	case c == '[':
		return p.array()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return Value{Kind: Number, Text: p.token()}, nil
	case c == 0:
		return Value{}, p.errorf("unexpected end of input")
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	if r == '_' || r == '$' || unicode.IsLetter(r) {
		return Value{Kind: Ident, Text: p.token()}, nil
	}
	return Value{}, p.errorf("unexpected %q", string(r))
}

// token consumes a run of characters up to the next delimiter.
func (p *parser) token() string {
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == ',' || r == ']' || r == '[' || r == '/' || unicode.IsSpace(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *parser) str(q byte) (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == q:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return "", p.errorf("newline in string")
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'x':
		r, err := p.hex(2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := p.hex(4)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r = p.lowSurrogate(r)
		}
		b.WriteRune(r)
	case '\n':
		// line continuation
	default:
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) hex(digits int) (rune, error) {
	if p.pos+digits > len(p.src) {
		return 0, p.errorf("short hex escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, p.errorf("bad hex escape %q", p.src[p.pos:p.pos+digits])
	}
	p.pos += digits
	return rune(n), nil
}

// lowSurrogate joins hi with a following \uXXXX low surrogate. A lone
// surrogate decodes to U+FFFD and leaves the input where it was.
func (p *parser) lowSurrogate(hi rune) rune {
	if !strings.HasPrefix(p.src[p.pos:], `\u`) {
		return unicode.ReplacementChar
	}
	save := p.pos
	p.pos += 2
	lo, err := p.hex(4)
	if err == nil {
		if r := utf16.DecodeRune(hi, lo); r != unicode.ReplacementChar {
			return r
		}
	}
	p.pos = save
	return unicode.ReplacementChar
}
