package config

import "time"

const (
	// DefaultConfigDirName is the directory name under the home directory.
	DefaultConfigDirName = ".termhost"
	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = "config.yaml"
	// DefaultLogFileName is the default host log file name.
	DefaultLogFileName = "termhost.log"

	// DefaultTerminalCols is the fallback terminal width when neither the
	// caller nor the controlling terminal provides one.
	DefaultTerminalCols = 80
	// DefaultTerminalRows is the fallback terminal height.
	DefaultTerminalRows = 24
	// DefaultTerminalTerm is the default TERM for the child process.
	DefaultTerminalTerm = "xterm-256color"

	// DefaultPollInterval is the session loop readiness timeout. It doubles
	// as the child liveness check cadence and bounds shutdown latency.
	DefaultPollInterval = 50 * time.Millisecond
)
