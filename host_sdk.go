// Package sidebar embeds terminal sessions for sidebar-style frontends.
// It hosts a child command on a pseudo-terminal, relays bytes between
// the child and the embedder over plain stdio, and resizes the terminal
// when the embedder writes an in-band resize directive.
package sidebar

import (
	"context"
	"os"
	"time"

	"github.com/derekross/obsidian-opencode-sidebar/internal/session"
	"pkt.systems/pslog"
)

// HostOptions configures a hosted terminal session.
type HostOptions struct {
	// SessionID identifies the session in logs. Generated when empty.
	SessionID string
	// Cols and Rows set the initial terminal size. Zero means detect
	// from the controlling terminal, falling back to 80x24.
	Cols int
	Rows int
	// Command is the child argv. Empty means the user's login shell.
	Command []string
	// Term overrides TERM in the child environment.
	Term string
	// Stdin and Stdout default to the process's own.
	Stdin  *os.File
	Stdout *os.File
	// PollInterval bounds how long the session loop waits between
	// readiness checks.
	PollInterval time.Duration
	Logger       pslog.Logger
	// OnResize is called after a resize directive has been applied.
	OnResize func(cols, rows int)
}

// Host runs a terminal session until the child exits or ctx is
// cancelled. The returned error reports allocation or relay failures;
// a child exiting nonzero is not an error.
func Host(ctx context.Context, opts HostOptions) error {
	return session.New(session.Options{
		SessionID:    opts.SessionID,
		Cols:         opts.Cols,
		Rows:         opts.Rows,
		Command:      opts.Command,
		Term:         opts.Term,
		Stdin:        opts.Stdin,
		Stdout:       opts.Stdout,
		PollInterval: opts.PollInterval,
		Logger:       opts.Logger,
		OnResize:     opts.OnResize,
	}).Run(ctx)
}
