package session

import (
	"errors"
	"os/exec"

	"github.com/derekross/obsidian-opencode-sidebar/internal/pty"
)

// supervisor owns the single Wait call on a backend's child and
// reports termination without ever blocking the session loop.
type supervisor struct {
	done chan struct{}
	err  error
}

// watchProcess starts the reaping goroutine for backend's child.
func watchProcess(backend pty.Backend) *supervisor {
	s := &supervisor{done: make(chan struct{})}
	go func() {
		s.err = backend.Wait()
		close(s.done)
	}()
	return s
}

// Done is closed once the child has exited and been reaped.
func (s *supervisor) Done() <-chan struct{} { return s.done }

// Alive reports whether the child is still running. It never blocks.
func (s *supervisor) Alive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Err returns the wait result. It is nil until Done is closed.
func (s *supervisor) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// exitStatus maps a wait result to the child's exit code. A signaled
// child or a wait failure reports -1.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
