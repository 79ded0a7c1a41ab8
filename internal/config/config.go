package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Patrick-Luo-THR/piksi-tools/internal/console"
)

// Config is the console configuration, loaded from config.yaml.
type Config struct {
	// MaxLen caps the in-memory log buffer. Zero selects the built-in
	// default; a negative value removes the cap.
	MaxLen int `yaml:"max_len"`
	// FilterLevel names the initial severity threshold (ERROR, WARNING,
	// INFO or DEBUG).
	FilterLevel string `yaml:"filter_level"`
	// LogToFile mirrors every buffer entry into a flat session log file.
	LogToFile bool `yaml:"log_to_file"`
	// OutputDir is where session log files are written. Empty means the
	// current directory.
	OutputDir string `yaml:"output_dir"`
	// DeviceLog is the JSONL log file to follow, if any.
	DeviceLog string `yaml:"device_log"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TelemetryConfig controls the one-shot settings reporter.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// LoggingConfig controls the rotating diagnostic log.
type LoggingConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func DefaultConfig() Config {
	return Config{
		FilterLevel: "WARNING",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(filepath.Join(defaultConfigDir(), "config.yaml"))
}

// LoadFromDir loads config.yaml from an explicit directory.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	if cfg.FilterLevel == "" {
		cfg.FilterLevel = "WARNING"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Validate rejects values the console cannot run with.
func (c *Config) Validate() error {
	if console.ParseLevel(c.FilterLevel) == console.LevelUnknown {
		return fmt.Errorf("filter_level %q is not a filterable severity", c.FilterLevel)
	}
	return nil
}

// ParsedFilterLevel returns the severity code for the configured threshold.
// Call Validate first; an unrecognized name maps to the unknown sentinel.
func (c *Config) ParsedFilterLevel() int {
	return console.ParseLevel(c.FilterLevel)
}

// ResolveOutputDir returns the directory session log files go to.
func (c *Config) ResolveOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return "."
}

// ResolveLogFile returns the diagnostic log path, defaulting into the
// config directory.
func (c *Config) ResolveLogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(defaultConfigDir(), "console.log")
}

func defaultConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "swift-console")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "swift-console")
	}

	return filepath.Join(home, ".config", "swift-console")
}
