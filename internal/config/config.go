// Package config loads portable-git settings.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional config file and PORTABLEGIT_* environment variables. The config
// file is YAML by default. JSON files may carry comments and trailing
// commas (the format editor settings files use); those are stripped with
// github.com/tidwall/jsonc before viper parses them.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/shinji-kodama/portable-git/internal/logging"
)

// Config represents the application configuration
type Config struct {
	// AppName is the per-application directory under LocalAppData.
	AppName string `mapstructure:"app_name" yaml:"app_name" json:"app_name"`

	// LocalAppData overrides the platform's local application-data folder.
	LocalAppData string `mapstructure:"local_app_data" yaml:"local_app_data" json:"local_app_data"`

	// ResourceDir is the root of the bundled resources
	// (<platform>/git.zip, generic/gitconfig, ...).
	ResourceDir string `mapstructure:"resource_dir" yaml:"resource_dir" json:"resource_dir"`

	// ExtensionDir is the host extension's install directory, searched
	// under PlatformResources/ when ResourceDir lacks an archive.
	ExtensionDir string `mapstructure:"extension_dir" yaml:"extension_dir" json:"extension_dir"`

	// TempDir is the parent of the temporary working directory. Empty
	// means the system default.
	TempDir string `mapstructure:"temp_dir" yaml:"temp_dir" json:"temp_dir"`

	// LockTimeout bounds how long install waits for a concurrent run.
	LockTimeout time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout" json:"lock_timeout"`

	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Validate checks the configuration for values the CLI cannot work with.
func (c *Config) Validate() error {
	if !slices.Contains(logging.Levels, c.Log.Level) {
		return fmt.Errorf("invalid log.level %q (valid: %v)", c.Log.Level, logging.Levels)
	}
	if !slices.Contains(logging.Formats, c.Log.Format) {
		return fmt.Errorf("invalid log.format %q (valid: %v)", c.Log.Format, logging.Formats)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("invalid lock_timeout %s: must be positive", c.LockTimeout)
	}
	return nil
}
