// Package config loads application settings from built-in defaults, an
// optional YAML file and environment variables, in that order of
// precedence, and validates the result.
package config

import "time"

// FileEnv names the environment variable pointing at a YAML config file.
const FileEnv = "ROSTER_CONFIG"

// Config holds all application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig controls how spreadsheets are fetched.
type SourceConfig struct {
	// MaxBytes is the size ceiling for local and remote sources (default: 1000000)
	MaxBytes int64 `yaml:"max_bytes" env:"ROSTER_MAX_BYTES" default:"1000000"`

	// FetchTimeout bounds a whole load, network read included (default: 30s)
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"ROSTER_FETCH_TIMEOUT" default:"30s"`

	// UserAgent is sent with URL requests
	UserAgent string `yaml:"user_agent" env:"ROSTER_USER_AGENT" default:"roster"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	// StartDir is where the file browser opens (default: working directory)
	StartDir string `yaml:"start_dir" env:"ROSTER_START_DIR"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"ROSTER_LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"ROSTER_LOG_FORMAT" default:"text"`

	// File receives log output; empty discards it
	File string `yaml:"file" env:"ROSTER_LOG_FILE"`
}
