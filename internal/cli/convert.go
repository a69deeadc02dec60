package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/wordbag/internal/config"
	"github.com/robalobadob/wordle/apps/wordbag/internal/scriptarray"
	"github.com/robalobadob/wordle/apps/wordbag/internal/store"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

// NewExportCommand writes words.js from the snapshot.
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write words.js from the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			snap, err := store.Open(cfg.Store, cfg.SnapshotPath)
			if err != nil {
				return err
			}
			bag, err := snap.Load(cmd.Context())
			if errors.Is(err, store.ErrNoSnapshot) {
				return fmt.Errorf("%s is not present", snap.Location())
			}
			if err != nil {
				return err
			}
			if err := scriptarray.WriteFile(cfg.ScriptPath, bag); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d words to %s\n", bag.Len(), cfg.ScriptPath)
			return nil
		},
	}
}

// NewImportCommand rebuilds the snapshot from words.js, or from a plain
// one-word-per-line .txt file when given one.
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Rebuild the snapshot from words.js or a word list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			src := cfg.ScriptPath
			if len(args) == 1 {
				src = args[0]
			}
			bag, err := readBag(src)
			if err != nil {
				return err
			}
			snap, err := store.Open(cfg.Store, cfg.SnapshotPath)
			if err != nil {
				return err
			}
			if err := snap.Save(cmd.Context(), bag); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words from %s into %s\n", bag.Len(), src, snap.Location())
			return nil
		},
	}
}

func readBag(path string) (words.Bag, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return words.ParseLines(f)
	}
	return scriptarray.ReadFile(path)
}
