package external

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Generator builds an initial snapshot as a side effect.
type Generator interface {
	Generate(ctx context.Context) error
}

// CommandGenerator runs a configured command line in Dir.
type CommandGenerator struct {
	Command string // e.g. "wordbag-gen --from es.dic"
	Dir     string
	Run     Runner // defaults to ExecRunner
}

// Generate runs the command. An empty Command is reported as a failure so
// the caller falls back to an empty bag.
func (g *CommandGenerator) Generate(ctx context.Context) error {
	argv := strings.Fields(g.Command)
	if len(argv) == 0 {
		return fmt.Errorf("%w: no generator configured", ErrExternalTool)
	}
	run := g.Run
	if run == nil {
		run = ExecRunner
	}
	log.Info().Str("cmd", g.Command).Msg("running word bag generator")
	if err := run(ctx, g.Dir, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("%w: generator: %v", ErrExternalTool, err)
	}
	return nil
}
