package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pkt.systems/pslog"
)

// openHostLogger returns the host logger. Stdout carries terminal data,
// so diagnostics go to stderr unless a log file path is given. The
// returned closer is nil when logging to stderr.
func openHostLogger(path string) (pslog.Logger, io.Closer, error) {
	if path == "" {
		return pslog.LoggerFromEnv(pslog.WithEnvWriter(os.Stderr)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return pslog.LoggerFromEnv(pslog.WithEnvWriter(file)), file, nil
}
