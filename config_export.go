package sidebar

import "github.com/derekross/obsidian-opencode-sidebar/internal/config"

// Config mirrors the termhost configuration.
type Config = config.Config

// HostConfig configures the host process itself.
type HostConfig = config.HostConfig

// TerminalConfig configures terminal defaults.
type TerminalConfig = config.TerminalConfig

// Loader wraps configuration loading via Viper.
type Loader = config.Loader

const (
	// DefaultConfigDirName is the directory name under the home directory.
	DefaultConfigDirName = config.DefaultConfigDirName
	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = config.DefaultConfigFileName
	// DefaultLogFileName is the default host log file name.
	DefaultLogFileName = config.DefaultLogFileName

	// DefaultTerminalCols is the fallback terminal column count.
	DefaultTerminalCols = config.DefaultTerminalCols
	// DefaultTerminalRows is the fallback terminal row count.
	DefaultTerminalRows = config.DefaultTerminalRows
	// DefaultTerminalTerm is the default TERM for the child process.
	DefaultTerminalTerm = config.DefaultTerminalTerm

	// DefaultPollInterval is the default session loop readiness timeout.
	DefaultPollInterval = config.DefaultPollInterval
)

// NewLoader returns a config loader with defaults wired.
func NewLoader() *config.Loader {
	return config.NewLoader()
}

// DefaultConfig returns default termhost configuration.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	return config.DefaultConfigDir()
}

// DefaultConfigPath returns the default config path.
func DefaultConfigPath() string {
	return config.DefaultConfigPath()
}

// DefaultLogPath returns the default host log path.
func DefaultLogPath() string {
	return config.DefaultLogPath()
}
