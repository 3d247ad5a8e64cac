//go:build !windows

package pty

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// unixBackend wraps a native pty pair. The child is started as a
// session leader with the subordinate side as its controlling
// terminal, so window change signals address its process group.
type unixBackend struct {
	cmd *exec.Cmd

	mu     sync.Mutex
	master *os.File
	cols   int
	rows   int
	closed bool
}

func newBackend(cols, rows int, command []string, term string) (Backend, error) {
	cmd := exec.Command(command[0], command[1:]...)
	if term != "" {
		cmd.Env = append(os.Environ(), "TERM="+term)
	}
	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", command[0], err)
	}
	return &unixBackend{cmd: cmd, master: master, cols: cols, rows: rows}, nil
}

func (b *unixBackend) Read(p []byte) (int, error)  { return b.master.Read(p) }
func (b *unixBackend) Write(p []byte) (int, error) { return b.master.Write(p) }

func (b *unixBackend) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 || cols > maxDimension || rows > maxDimension {
		return fmt.Errorf("invalid size %dx%d", cols, rows)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if err := pty.Setsize(b.master, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	}); err != nil {
		return fmt.Errorf("set pty size: %w", err)
	}
	b.cols, b.rows = cols, rows
	if b.cmd.Process != nil {
		// The child leads its own process group; tell the group the
		// terminal changed underneath it.
		_ = syscall.Kill(-b.cmd.Process.Pid, syscall.SIGWINCH)
	}
	return nil
}

func (b *unixBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cols, b.rows
}

func (b *unixBackend) PID() int {
	if b.cmd.Process == nil {
		return 0
	}
	return b.cmd.Process.Pid
}

func (b *unixBackend) Wait() error { return b.cmd.Wait() }

func (b *unixBackend) Terminate() error {
	if b.cmd.Process == nil {
		return nil
	}
	return b.cmd.Process.Signal(syscall.SIGTERM)
}

func (b *unixBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.master.Close()
}

func (b *unixBackend) File() *os.File { return b.master }

func (b *unixBackend) EchoesFocusEvents() bool { return false }
