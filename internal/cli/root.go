package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/wordbag/internal/bagsync"
	"github.com/robalobadob/wordle/apps/wordbag/internal/changelog"
	"github.com/robalobadob/wordle/apps/wordbag/internal/config"
	"github.com/robalobadob/wordle/apps/wordbag/internal/console"
	"github.com/robalobadob/wordle/apps/wordbag/internal/external"
	"github.com/robalobadob/wordle/apps/wordbag/internal/store"
)

// NewRootCommand creates the wordbag command. Run without arguments it
// starts the interactive session.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordbag",
		Short: "Maintain the Wordle answer bag",
		Long: "Add, remove, count and list the words of the Wordle answer bag.\n" +
			"Every change is saved to the snapshot and mirrored into words.js.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, config.Load())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewImportCommand())
	return cmd
}

// Components are the wired collaborators for one configuration.
type Components struct {
	Snapshot   store.Snapshot
	NewLog     *changelog.Log
	RemovedLog *changelog.Log
	Options    bagsync.Options
}

// Wire builds the storage and collaborators described by cfg.
func Wire(cfg config.Config) (*Components, error) {
	snap, err := store.Open(cfg.Store, cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	c := &Components{
		Snapshot:   snap,
		NewLog:     changelog.New(cfg.NewLogPath),
		RemovedLog: changelog.New(cfg.RemovedLog),
	}
	c.Options = bagsync.Options{
		Snapshot:   snap,
		ScriptPath: cfg.ScriptPath,
		NewLog:     c.NewLog,
		RemovedLog: c.RemovedLog,
	}
	if cfg.RemoteURL != "" {
		c.Options.Fetcher = external.NewHTTPFetcher(cfg.RemoteURL, cfg.FetchTimeout, cfg.FetchRetries)
	}
	if cfg.Generator != "" {
		c.Options.Generator = &external.CommandGenerator{Command: cfg.Generator, Dir: cfg.Dir}
	}
	if cfg.Publish {
		c.Options.Publisher = &external.GitPublisher{Dir: cfg.Dir, Remote: cfg.GitRemote, Branch: cfg.GitBranch}
	}
	return c, nil
}

func runSession(cmd *cobra.Command, cfg config.Config) error {
	comp, err := Wire(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checking %s...\n", cfg.ScriptPath)

	syncer := bagsync.New(comp.Options)
	src, err := syncer.Bootstrap(cmd.Context())
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	switch src {
	case bagsync.SourceScript:
		fmt.Fprintf(out, "Using %s as the source; the snapshot was rebuilt from it.\n\n", cfg.ScriptPath)
	case bagsync.SourceGenerator:
		fmt.Fprintf(out, "Generator found, word bag rebuilt.\n\n")
	case bagsync.SourceEmpty:
		fmt.Fprintf(out, "No word bag found; starting with an empty one.\n\n")
	}

	sess := bagsync.NewSession()
	log.Debug().Str("session", sess.ID).Stringer("source", src).Msg("session started")
	_, err = console.New(console.Options{
		Syncer:     syncer,
		Session:    sess,
		In:         cmd.InOrStdin(),
		Out:        out,
		NewLog:     comp.NewLog,
		RemovedLog: comp.RemovedLog,
	}).Run(cmd.Context())
	return err
}
