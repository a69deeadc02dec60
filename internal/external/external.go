// apps/wordbag/internal/external/external.go
//
// Out-of-process collaborators of the sync tool:
//   - Fetcher:   downloads words.js from the remote source before bootstrap.
//   - Generator: builds a fresh snapshot when nothing local exists.
//   - Publisher: commits and pushes the regenerated words.js.
//
// Every failure is reported wrapped in ErrExternalTool. Callers treat these
// as degraded functionality, never as fatal.

package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrExternalTool wraps every collaborator failure.
var ErrExternalTool = errors.New("external tool failed")

// Runner executes name with args inside dir.
type Runner func(ctx context.Context, dir, name string, args ...string) error

// ExecRunner runs the command with os/exec, discarding stdout. The last line
// of stderr is folded into the returned error.
func ExecRunner(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
