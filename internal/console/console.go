// apps/wordbag/internal/console/console.go
//
// Interactive prompt loop for maintaining the word bag.
//
// States:
//   Searching → (Adding | Removing | Listing) → ... → Exiting
//
//   - Searching: read a word. Known words lead to Removing, unknown words to
//     Adding, the sentinel "x" to Listing, end of input to Exiting.
//   - Adding / Removing: ask for confirmation. "y"/"s" mutates the bag,
//     "n" goes back to Searching, "x" exits. Anything else re-asks.
//   - Listing: optionally print every word, then exit.
//   - Exiting: flush change logs, regenerate words.js, publish, summarize.
//
// Invalid answers are handled with loops, never recursion.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordle/apps/wordbag/internal/bagsync"
	"github.com/robalobadob/wordle/apps/wordbag/internal/changelog"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

// Sentinel is the answer that ends the session from any prompt.
const Sentinel = "x"

// State is a step of the interactive session.
type State int

const (
	StateSearching State = iota
	StateAdding
	StateRemoving
	StateListing
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateAdding:
		return "adding"
	case StateRemoving:
		return "removing"
	case StateListing:
		return "listing"
	case StateExiting:
		return "exiting"
	}
	return "unknown"
}

// answer is a parsed confirmation reply.
type answer int

const (
	answerInvalid answer = iota
	answerYes
	answerNo
	answerExit
)

func parseAnswer(s string) answer {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "si", "sí", "y", "yes":
		return answerYes
	case "n", "no":
		return answerNo
	case Sentinel:
		return answerExit
	}
	return answerInvalid
}

// Options configures a Console.
type Options struct {
	Syncer     *bagsync.Syncer
	Session    *bagsync.Session // a new one is created when nil
	In         io.Reader
	Out        io.Writer
	NewLog     *changelog.Log // optional, shown in the banner
	RemovedLog *changelog.Log // optional, shown in the banner
}

// Console drives one interactive session over a bootstrapped Syncer.
type Console struct {
	syncer  *bagsync.Syncer
	sess    *bagsync.Session
	in      *bufio.Scanner
	out     io.Writer
	st      styles
	newLog  *changelog.Log
	elimLog *changelog.Log

	state State
	word  string // candidate under consideration
}

// New builds a Console.
func New(o Options) *Console {
	sess := o.Session
	if sess == nil {
		sess = bagsync.NewSession()
	}
	return &Console{
		syncer:  o.Syncer,
		sess:    sess,
		in:      bufio.NewScanner(o.In),
		out:     o.Out,
		st:      newStyles(o.Out),
		newLog:  o.NewLog,
		elimLog: o.RemovedLog,
		state:   StateSearching,
	}
}

// Session returns the session being driven.
func (c *Console) Session() *bagsync.Session { return c.sess }

// State returns the current state.
func (c *Console) State() State { return c.state }

// Run prints the banner, loops until Exiting and then finishes the session.
func (c *Console) Run(ctx context.Context) (bagsync.Summary, error) {
	c.banner()
	for c.state != StateExiting {
		if err := ctx.Err(); err != nil {
			c.state = StateExiting
			break
		}
		c.state = c.step(ctx)
	}
	sum, err := c.syncer.Finish(ctx, c.sess)
	c.summary(sum, err)
	return sum, err
}

func (c *Console) step(ctx context.Context) State {
	switch c.state {
	case StateSearching:
		return c.search()
	case StateAdding:
		return c.add(ctx)
	case StateRemoving:
		return c.remove(ctx)
	case StateListing:
		return c.list()
	}
	return StateExiting
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine prompts and reads one line. ok is false at end of input.
func (c *Console) readLine(prompt string) (string, bool) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		c.printf("\n")
		return "", false
	}
	return c.in.Text(), true
}

// confirm asks until it gets a valid answer. End of input counts as exit.
func (c *Console) confirm(prompt string) answer {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return answerExit
		}
		if a := parseAnswer(line); a != answerInvalid {
			return a
		}
		c.printf("\n%s\n", c.st.err.Render("Please answer only Y or N."))
	}
}

func (c *Console) banner() {
	c.showLog("Last words added", c.newLog)
	c.showLog("Last words removed", c.elimLog)
	c.printf("%s %d %s\n", c.st.info.Render("Current word count:"), c.syncer.Bag().Len(), c.st.info.Render("words."))
	c.printf("\nType %s at any time to exit.\n", c.st.ok.Bold(true).Render(strings.ToUpper(Sentinel)))
}

func (c *Console) showLog(title string, l *changelog.Log) {
	if l == nil {
		return
	}
	entries, err := l.Entries()
	if err != nil {
		c.printf("%s\n", c.st.err.Render(fmt.Sprintf("Cannot read %s: %v", l.Path(), err)))
		return
	}
	if len(entries) == 0 {
		return
	}
	c.printf("%s:\n%s\n\n", title, changelog.Format(entries))
}

func (c *Console) search() State {
	line, ok := c.readLine("\nWord to search: ")
	if !ok {
		return StateExiting
	}
	text := words.Normalize(line)
	switch {
	case text == "":
		return StateSearching
	case c.syncer.Has(text):
		c.word = text
		c.printf("\n%s %s %s\n", c.st.note.Render("The word"), c.st.word.Render(text), c.st.note.Render("is already in the bag."))
		return StateRemoving
	case text == Sentinel:
		return StateListing
	default:
		c.word = text
		c.printf("\nThe word %s is not in the bag.\n", c.st.word.Render(text))
		return StateAdding
	}
}

func (c *Console) add(ctx context.Context) State {
	switch c.confirm(fmt.Sprintf("\n%s (Y/N): ", c.st.word.Render("Add it?"))) {
	case answerNo:
		return StateSearching
	case answerExit:
		return StateExiting
	}

	w, err := c.syncer.Add(ctx, c.sess, c.word)
	switch {
	case errors.Is(err, words.ErrLength):
		c.printf("\n%s\nWord %s was not added.\n",
			c.st.err.Render(fmt.Sprintf("Words must have exactly %d letters.", words.Length)), c.st.note.Render(w))
	case err != nil:
		c.printf("\n%s\n", c.st.err.Render(fmt.Sprintf("Word %s was not added: %v", w, err)))
	default:
		c.printf("\nThe word %s was added to the bag.\n", c.st.ok.Render(w))
	}
	return StateSearching
}

func (c *Console) remove(ctx context.Context) State {
	prompt := fmt.Sprintf("\n%s %s %s (Y/N) ",
		c.st.err.Render("Do you want to"), c.st.err.Bold(true).Render("REMOVE"),
		c.st.word.Render(c.word)+c.st.err.Render(" from the bag?"))
	switch c.confirm(prompt) {
	case answerNo:
		return StateSearching
	case answerExit:
		return StateExiting
	}

	w, err := c.syncer.Remove(ctx, c.sess, c.word)
	if err != nil {
		c.printf("\n%s\n", c.st.err.Render(fmt.Sprintf("Word %s was not removed: %v", w, err)))
	} else {
		c.printf("\nThe word %s was removed from the bag.\n", c.st.err.Render(w))
	}
	return StateSearching
}

func (c *Console) list() State {
	if c.confirm("\nList every word in the bag? (Y/N) ") == answerYes {
		c.printf("\n\n%s\n\n", strings.Join(c.syncer.Bag().Sorted(), "  "))
	}
	return StateExiting
}

func (c *Console) summary(sum bagsync.Summary, err error) {
	if n := len(sum.Added); n > 0 {
		c.printf("\nWords added (%s):\n%s\n", c.st.ok.Render(fmt.Sprint(n)), changelog.Format(sum.Added))
	}
	if n := len(sum.Removed); n > 0 {
		c.printf("\nWords removed (%s):\n%s\n", c.st.err.Render(fmt.Sprint(n)), changelog.Format(sum.Removed))
	}
	c.printf("\n%s %d %s\n", c.st.info.Render("Current word count:"), sum.BagSize, c.st.info.Render("words."))
	if err != nil {
		c.printf("\n%s\n", c.st.err.Render(fmt.Sprintf("Session finished with errors: %v", err)))
	}
	switch {
	case sum.Published:
		c.printf("%s\n", c.st.ok.Render("words.js was published."))
	case sum.PublishErr != nil:
		c.printf("%s\n", c.st.err.Render(fmt.Sprintf("words.js could not be published: %v", sum.PublishErr)))
	}
}

// styles is the terminal palette.
type styles struct {
	ok   lipgloss.Style // green
	err  lipgloss.Style // red
	word lipgloss.Style // orange
	note lipgloss.Style // cyan
	info lipgloss.Style // bright blue
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")),
		err:  r.NewStyle().Foreground(lipgloss.Color("1")),
		word: r.NewStyle().Foreground(lipgloss.Color("214")),
		note: r.NewStyle().Foreground(lipgloss.Color("6")),
		info: r.NewStyle().Foreground(lipgloss.Color("12")),
	}
}
