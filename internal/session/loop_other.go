//go:build !linux

package session

import (
	"context"
	"os"
)

// runPoll falls back to the goroutine relay on platforms where the
// session does not drive poll itself.
func (r *Runner) runPoll(ctx context.Context, _ *os.File, stdin, stdout *os.File) error {
	return r.runPumps(ctx, stdin, stdout)
}
