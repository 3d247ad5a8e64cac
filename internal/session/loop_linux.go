//go:build linux

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// runPoll services the master and the embedder input from a single
// readiness loop. Both descriptors run non-blocking; the poll timeout
// doubles as the cadence for liveness and cancellation checks.
func (r *Runner) runPoll(ctx context.Context, master, stdin, stdout *os.File) error {
	_ = setNonblock(master, true)
	if stdin != nil {
		_ = setNonblock(stdin, true)
		defer func() {
			_ = setNonblock(stdin, false)
		}()
	}

	timeoutMs := int(r.pollInterval() / time.Millisecond)
	if timeoutMs <= 0 {
		timeoutMs = 1
	}
	outBuf := make([]byte, 4096)
	inBuf := make([]byte, 4096)

	fds := []unix.PollFd{
		{Fd: int32(master.Fd()), Events: unix.POLLIN},
		{Fd: -1, Events: unix.POLLIN},
	}
	if stdin != nil {
		fds[1].Fd = int32(stdin.Fd())
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		fds[0].Revents = 0
		fds[1].Revents = 0
		if _, err := unix.Poll(fds, timeoutMs); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll: %w", err)
		}

		if fds[0].Revents&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0 {
			n, err := master.Read(outBuf)
			if n > 0 {
				r.relayOutput(ctx, stdout, outBuf[:n])
			}
			if err != nil && !errors.Is(err, syscall.EAGAIN) && !errors.Is(err, syscall.EWOULDBLOCK) {
				// The child side is gone. Normal end of session.
				return nil
			}
		}

		if fds[1].Fd >= 0 && fds[1].Revents&(unix.POLLIN|unix.POLLERR|unix.POLLHUP) != 0 {
			n, err := stdin.Read(inBuf)
			if n > 0 {
				r.relayInput(ctx, inBuf[:n])
			}
			if err != nil && !errors.Is(err, syscall.EAGAIN) && !errors.Is(err, syscall.EWOULDBLOCK) {
				if !errors.Is(err, io.EOF) {
					r.logger.Debug("stdin read error", "err", err)
				}
				// Stop watching the input direction; output keeps
				// flowing until the child exits.
				r.finishInput(ctx)
				fds[1].Fd = -1
			}
		}

		if !r.sup.Alive() {
			r.drainMaster(ctx, master, stdout, outBuf)
			return nil
		}
	}
}

// drainMaster forwards output the child wrote shortly before exiting.
// The master is non-blocking, so the loop stops as soon as the buffer
// is empty or the subordinate side is fully closed.
func (r *Runner) drainMaster(ctx context.Context, master, stdout *os.File, buf []byte) {
	for i := 0; i < 32; i++ {
		n, err := master.Read(buf)
		if n > 0 {
			r.relayOutput(ctx, stdout, buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func setNonblock(file *os.File, on bool) error {
	if file == nil {
		return nil
	}
	return syscall.SetNonblock(int(file.Fd()), on)
}
