package session

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"

	"github.com/derekross/obsidian-opencode-sidebar/internal/config"
	"github.com/derekross/obsidian-opencode-sidebar/internal/control"
	"github.com/derekross/obsidian-opencode-sidebar/internal/pty"
	"pkt.systems/pslog"
)

// State identifies the session lifecycle phase.
type State int32

const (
	// StateIdle is the phase before the pseudo-terminal is allocated.
	StateIdle State = iota
	// StateRunning is the relay phase.
	StateRunning
	// StateTerminating is the teardown phase after the loop has ended.
	StateTerminating
	// StateTerminated is the final phase: master closed, child signaled.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Options configures a hosted terminal session.
type Options struct {
	SessionID    string
	Cols         int
	Rows         int
	Command      []string
	Term         string
	Stdin        *os.File
	Stdout       *os.File
	PollInterval time.Duration
	Logger       pslog.Logger
	OnResize     func(cols, rows int)
}

// Runner hosts one child command on a pseudo-terminal and relays bytes
// between it and the embedder's stdio until the child exits or the
// context is cancelled. Resize directives embedded in the input stream
// are stripped and applied to the terminal as they arrive.
type Runner struct {
	opts   Options
	logger pslog.Logger

	backend     pty.Backend
	sup         *supervisor
	decoder     *control.Decoder
	filterFocus bool

	state atomic.Int32

	// newBackend is a test seam; nil means pty.New.
	newBackend func(cols, rows int, command []string, term string) (pty.Backend, error)
}

// New constructs a Runner.
func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// State returns the current lifecycle phase. Safe to call from any
// goroutine.
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
}

// Run allocates the pseudo-terminal, spawns the child and blocks until
// the session ends. Allocation failures are returned; errors on a
// single relay direction are logged and the session continues.
func (r *Runner) Run(ctx context.Context) error {
	if r.opts.Logger == nil {
		r.opts.Logger = pslog.LoggerFromEnv()
	}
	if r.opts.SessionID == "" {
		r.opts.SessionID = uuid.NewString()
	}
	r.logger = r.opts.Logger.With("component", "session", "session", r.opts.SessionID)

	if r.opts.Cols <= 0 || r.opts.Rows <= 0 {
		cols, rows := termSizeAny(r.stdout(), r.stdin())
		if cols > 0 && rows > 0 {
			r.opts.Cols, r.opts.Rows = cols, rows
		}
	}
	if r.opts.Cols <= 0 {
		r.opts.Cols = config.DefaultTerminalCols
	}
	if r.opts.Rows <= 0 {
		r.opts.Rows = config.DefaultTerminalRows
	}
	if r.opts.Term == "" {
		r.opts.Term = config.DefaultTerminalTerm
	}
	command := r.opts.Command
	if len(command) == 0 {
		command = []string{defaultShell()}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	allocate := r.newBackend
	if allocate == nil {
		allocate = pty.New
	}
	backend, err := allocate(r.opts.Cols, r.opts.Rows, command, r.opts.Term)
	if err != nil {
		return err
	}
	r.backend = backend
	r.filterFocus = backend.EchoesFocusEvents()
	r.sup = watchProcess(backend)
	r.decoder = control.NewDecoder(r.applyResize, r.logger)
	r.setState(StateRunning)

	r.logger.Info("session started",
		"pid", backend.PID(),
		"command", command[0],
		"cols", r.opts.Cols,
		"rows", r.opts.Rows)

	var runErr error
	if master := backend.File(); master != nil {
		runErr = r.runPoll(ctx, master, r.stdin(), r.stdout())
	} else {
		runErr = r.runPumps(ctx, r.stdin(), r.stdout())
	}

	r.setState(StateTerminating)
	if err := backend.Close(); err != nil {
		r.logger.Debug("pty close error", "err", err)
	}
	if r.sup.Alive() {
		if err := backend.Terminate(); err != nil {
			r.logger.Debug("terminate child", "err", err)
		}
	}
	r.setState(StateTerminated)

	if r.sup.Alive() {
		r.logger.Info("session ended", "reason", "cancelled")
	} else {
		r.logger.Info("session ended", "exit_code", exitStatus(r.sup.Err()))
	}
	return runErr
}

// runPumps relays each direction on its own goroutine. Backends without
// a pollable master only expose blocking reads, so the input side is
// wrapped in a cancelable reader to keep shutdown prompt.
func (r *Runner) runPumps(ctx context.Context, stdin, stdout *os.File) error {
	var input io.Reader = stdin
	var cancelable cancelreader.CancelReader
	if stdin != nil {
		if cr, err := cancelreader.NewReader(stdin); err == nil {
			input = cr
			cancelable = cr
		}
	}

	outDone := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(outDone)
		buf := make([]byte, 4096)
		for {
			n, err := r.backend.Read(buf)
			if n > 0 {
				r.relayOutput(ctx, stdout, buf[:n])
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil && r.sup.Alive() {
					r.logger.Debug("pty read error", "err", err)
				}
				return
			}
		}
	}()

	if stdin != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 4096)
			for {
				n, err := input.Read(buf)
				if n > 0 {
					r.relayInput(ctx, buf[:n])
				}
				if err != nil {
					if !errors.Is(err, io.EOF) && !errors.Is(err, cancelreader.ErrCanceled) {
						r.logger.Debug("stdin read error", "err", err)
					}
					// Input ending does not end the session; output
					// keeps flowing until the child exits.
					r.finishInput(ctx)
					return
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
	case <-outDone:
	case <-r.sup.Done():
	}

	r.setState(StateTerminating)
	if cancelable != nil {
		cancelable.Cancel()
	}
	if err := r.backend.Close(); err != nil {
		r.logger.Debug("pty close error", "err", err)
	}
	wg.Wait()
	if cancelable != nil {
		// Closing releases the reader's own descriptors. Stdin itself
		// stays open; the embedder owns it.
		_ = cancelable.Close()
	}
	return nil
}

// relayOutput forwards a chunk of child output to the embedder.
func (r *Runner) relayOutput(ctx context.Context, stdout *os.File, data []byte) {
	if r.filterFocus {
		data = control.StripFocusEvents(data)
		if len(data) == 0 {
			return
		}
	}
	if err := writeAll(ctx, stdout, data); err != nil && ctx.Err() == nil {
		r.logger.Debug("stdout write error", "err", err)
	}
}

// relayInput strips resize directives from a chunk of embedder input
// and forwards the rest to the child.
func (r *Runner) relayInput(ctx context.Context, data []byte) {
	clean := r.decoder.Filter(data)
	if len(clean) == 0 {
		return
	}
	if err := writeAll(ctx, r.backend, clean); err != nil && ctx.Err() == nil {
		r.logger.Debug("pty write error", "err", err)
	}
}

// finishInput releases bytes the decoder held for a directive that can
// no longer complete once the input stream has ended.
func (r *Runner) finishInput(ctx context.Context) {
	tail := r.decoder.Flush()
	if len(tail) == 0 {
		return
	}
	if err := writeAll(ctx, r.backend, tail); err != nil && ctx.Err() == nil {
		r.logger.Debug("pty write error", "err", err)
	}
}

// applyResize is the decoder callback for decoded resize directives.
// Failures are reported and the session continues.
func (r *Runner) applyResize(cols, rows int) {
	if err := r.backend.Resize(cols, rows); err != nil {
		r.logger.Warn("resize error", "cols", cols, "rows", rows, "err", err)
		return
	}
	r.logger.Debug("resized pty", "cols", cols, "rows", rows)
	if r.opts.OnResize != nil {
		r.opts.OnResize(cols, rows)
	}
}

func (r *Runner) pollInterval() time.Duration {
	if r.opts.PollInterval > 0 {
		return r.opts.PollInterval
	}
	return config.DefaultPollInterval
}

func (r *Runner) stdin() *os.File {
	if r.opts.Stdin != nil {
		return r.opts.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() *os.File {
	if r.opts.Stdout != nil {
		return r.opts.Stdout
	}
	return os.Stdout
}

func termSize(file *os.File) (int, int) {
	if file == nil {
		return 0, 0
	}
	cols, rows, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0, 0
	}
	return cols, rows
}

func termSizeAny(files ...*os.File) (int, int) {
	for _, file := range files {
		if file == nil {
			continue
		}
		cols, rows := termSize(file)
		if cols > 0 && rows > 0 {
			return cols, rows
		}
	}
	if tty, err := os.Open("/dev/tty"); err == nil {
		defer func() {
			_ = tty.Close()
		}()
		if cols, rows := termSize(tty); cols > 0 && rows > 0 {
			return cols, rows
		}
	}
	return 0, 0
}

func writeAll(ctx context.Context, w io.Writer, data []byte) error {
	for len(data) > 0 {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := w.Write(data)
		if n > 0 {
			data = data[n:]
		}
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
				if ctx != nil {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(5 * time.Millisecond):
					}
				} else {
					time.Sleep(5 * time.Millisecond)
				}
				continue
			}
			return err
		}
		if n == 0 {
			if ctx != nil {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(5 * time.Millisecond):
				}
			} else {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}
	return nil
}
