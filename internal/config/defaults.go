package config

// DefaultConfig returns the default configuration values.
func DefaultConfig() Config {
	return Config{
		Host: HostConfig{
			LogFile:      DefaultLogPath(),
			PollInterval: DefaultPollInterval,
		},
		Terminal: TerminalConfig{
			Term: DefaultTerminalTerm,
		},
	}
}
