package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrClosed is returned by operations on a backend whose master handle
// has already been released.
var ErrClosed = errors.New("pty backend closed")

// Backend is one allocated pseudo-terminal pair with a child process
// attached to the subordinate side. Reads return child output and
// writes feed child input; both are safe to call concurrently with
// each other and with Resize.
//
// Platform implementations:
//   - Unix: a native pty via creack/pty (pty_unix.go)
//   - Windows: ConPTY via aymanbagabas/go-pty (pty_windows.go)
type Backend interface {
	io.Reader
	io.Writer

	// Resize applies new dimensions to the live terminal and notifies
	// the child. The recorded size changes only when the underlying
	// operation succeeds.
	Resize(cols, rows int) error

	// Size returns the last successfully applied dimensions.
	Size() (cols, rows int)

	// PID returns the child's process identifier.
	PID() int

	// Wait blocks until the child exits and reaps it. Call it at most
	// once; the session's supervisor owns that call.
	Wait() error

	// Terminate asks the child to exit. Best effort; it does not wait.
	Terminate() error

	// Close releases the master handle. Safe to call more than once.
	Close() error

	// File returns the pollable master descriptor, or nil when the
	// backend has no single descriptor usable with poll (ConPTY).
	File() *os.File

	// EchoesFocusEvents reports whether the backend injects focus
	// tracking sequences into child output, in which case the session
	// loop strips them.
	EchoesFocusEvents() bool
}

// maxDimension is the largest width or height a backend accepts. The
// kernel winsize fields are 16-bit, so anything larger would wrap to a
// different size than the one recorded.
const maxDimension = 65535

// New allocates a pseudo-terminal with the given initial size and
// spawns command attached to its subordinate side. The child inherits
// the current environment with TERM overridden when term is non-empty.
func New(cols, rows int, command []string, term string) (Backend, error) {
	if cols <= 0 || rows <= 0 || cols > maxDimension || rows > maxDimension {
		return nil, fmt.Errorf("invalid initial size %dx%d", cols, rows)
	}
	if len(command) == 0 {
		return nil, errors.New("command is required")
	}
	return newBackend(cols, rows, command, term)
}
