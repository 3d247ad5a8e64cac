package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the terminal host.
type Config struct {
	Host     HostConfig     `mapstructure:"host" yaml:"host"`
	Terminal TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
}

// HostConfig configures the host process itself.
type HostConfig struct {
	LogFile      string        `mapstructure:"log_file" yaml:"log_file"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// MarshalYAML renders durations as strings so generated config files
// read "50ms" instead of raw nanosecond counts. Viper parses either
// form back.
func (c HostConfig) MarshalYAML() (any, error) {
	return struct {
		LogFile      string `yaml:"log_file"`
		PollInterval string `yaml:"poll_interval"`
	}{
		LogFile:      c.LogFile,
		PollInterval: c.PollInterval.String(),
	}, nil
}

// TerminalConfig configures PTY session defaults.
type TerminalConfig struct {
	Term string `mapstructure:"term" yaml:"term"`
}

// Loader wraps Viper configuration loading for termhost.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader initializes a Loader with standard defaults.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("TERMHOST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/termhost")
	v.AddConfigPath("$HOME/.termhost")

	return &Loader{v: v}
}

// Viper exposes the underlying Viper instance for flag binding and defaults.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = strings.TrimSpace(path)
}

// ConfigFileUsed returns the config file read by the last Load, or the
// empty string when defaults were used.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// ReadInConfig reads configuration from file if available.
func (l *Loader) ReadInConfig() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads configuration and unmarshals it into a Config struct.
func (l *Loader) Load() (Config, error) {
	if err := l.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
