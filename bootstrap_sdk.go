package sidebar

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"pkt.systems/pslog"
)

// InitConfig writes the default configuration to the default path and
// returns that path. It refuses to overwrite an existing file.
func InitConfig(logger pslog.Logger) (string, error) {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}

	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.MkdirAll(DefaultConfigDir(), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	logger.Info("wrote default config", "path", path)
	return path, nil
}
