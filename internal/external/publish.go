package external

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Publisher pushes the regenerated words.js to its remote home.
type Publisher interface {
	Publish(ctx context.Context, file string) error
}

// GitPublisher commits file in the repository at Dir and pushes it.
type GitPublisher struct {
	Dir    string
	Remote string // default "origin"
	Branch string // default "main"
	Run    Runner // defaults to ExecRunner
	Now    func() time.Time
}

// CommitMessage returns the automatic commit message for t.
func CommitMessage(t time.Time) string {
	return "auto: " + t.Format("02/01/06-15:04:05")
}

// Publish runs git add, git commit and git push in order, stopping at the
// first failure. A relative file is taken relative to the working directory
// and rewritten relative to Dir.
func (p *GitPublisher) Publish(ctx context.Context, file string) error {
	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	remote, branch := p.Remote, p.Branch
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "main"
	}

	if p.Dir != "" && !filepath.IsAbs(file) {
		if rel, err := filepath.Rel(p.Dir, file); err == nil {
			file = rel
		}
	}

	steps := [][]string{
		{"add", file},
		{"commit", "-m", CommitMessage(now())},
		{"push", remote, branch},
	}
	for _, args := range steps {
		if err := run(ctx, p.Dir, "git", args...); err != nil {
			return fmt.Errorf("%w: git %s: %v", ErrExternalTool, args[0], err)
		}
	}
	log.Info().Str("file", file).Str("remote", remote).Str("branch", branch).Msg("published")
	return nil
}
