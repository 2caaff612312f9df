package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/shinji-kodama/portable-git/internal/layout"
)

// Default values
const (
	DefaultLockTimeout = 2 * time.Minute
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "pretty"

	// EnvPrefix is the prefix of environment overrides
	// (PORTABLEGIT_APP_NAME, PORTABLEGIT_LOG_LEVEL, ...).
	EnvPrefix = "PORTABLEGIT"

	configDirName = "portable-git"
)

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "." + configDirName
	}
	return filepath.Join(dir, configDirName)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		AppName:     layout.DefaultAppName,
		LockTimeout: DefaultLockTimeout,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
