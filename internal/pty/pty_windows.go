//go:build windows

package pty

import (
	"fmt"
	"os"
	"sync"

	gopty "github.com/aymanbagabas/go-pty"
)

// conptyBackend drives a ConPTY console. There is no single pollable
// descriptor; I/O goes through separate pipes behind the gopty handle,
// so sessions relay with blocking reads on dedicated goroutines.
type conptyBackend struct {
	cmd *gopty.Cmd

	mu     sync.Mutex
	pty    gopty.Pty
	cols   int
	rows   int
	closed bool
}

func newBackend(cols, rows int, command []string, term string) (Backend, error) {
	p, err := gopty.New()
	if err != nil {
		return nil, fmt.Errorf("open conpty: %w", err)
	}
	cmd := p.Command(command[0], command[1:]...)
	if term != "" {
		cmd.Env = append(os.Environ(), "TERM="+term)
	}
	if err := cmd.Start(); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("start %s: %w", command[0], err)
	}
	if err := p.Resize(cols, rows); err != nil {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		_ = p.Close()
		return nil, fmt.Errorf("set initial size: %w", err)
	}
	return &conptyBackend{cmd: cmd, pty: p, cols: cols, rows: rows}, nil
}

func (b *conptyBackend) Read(p []byte) (int, error)  { return b.pty.Read(p) }
func (b *conptyBackend) Write(p []byte) (int, error) { return b.pty.Write(p) }

func (b *conptyBackend) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 || cols > maxDimension || rows > maxDimension {
		return fmt.Errorf("invalid size %dx%d", cols, rows)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	// ConPTY propagates the new dimensions to the child itself; no
	// explicit signal is needed.
	if err := b.pty.Resize(cols, rows); err != nil {
		return fmt.Errorf("resize conpty: %w", err)
	}
	b.cols, b.rows = cols, rows
	return nil
}

func (b *conptyBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cols, b.rows
}

func (b *conptyBackend) PID() int {
	if b.cmd.Process == nil {
		return 0
	}
	return b.cmd.Process.Pid
}

func (b *conptyBackend) Wait() error { return b.cmd.Wait() }

func (b *conptyBackend) Terminate() error {
	if b.cmd.Process == nil {
		return nil
	}
	return b.cmd.Process.Kill()
}

func (b *conptyBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pty.Close()
}

func (b *conptyBackend) File() *os.File { return nil }

func (b *conptyBackend) EchoesFocusEvents() bool { return true }
