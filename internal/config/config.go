// Package config provides configuration loading with explicit naming
//
// Available functions:
//
//   LoadFromEnvVarsOnly()                - Environment variables ONLY
//                                          Use: ad-hoc runs, cron jobs
//
//   LoadFromYamlFile(path)               - YAML file ONLY (no env overrides)
//                                          Use: testing
//
//   LoadFromYamlWithEnvOverrides(path)   - YAML base + Environment overrides
//                                          Priority: Env Vars > YAML > Defaults
//
// Command-line flags are applied by the caller on top of the loaded config.
//
// Environment variables supported:
//
//   OUTPUT:
//     - ISNTPSYNCED_OUTPUT (text|json)
//
//   DAEMON:
//     - ISNTPSYNCED_DAEMON_DISABLED, ISNTPSYNCED_PROC_PATH
//
//   REFERENCE:
//     - ISNTPSYNCED_REFERENCE_ENABLED, ISNTPSYNCED_REFERENCE_SERVER
//     - ISNTPSYNCED_REFERENCE_SAMPLES, ISNTPSYNCED_REFERENCE_INTERVAL
//     - ISNTPSYNCED_REFERENCE_TIMEOUT, ISNTPSYNCED_REFERENCE_VERSION
//
//   LOGGING:
//     - LOG_LEVEL (trace|debug|info|warn|error|off)
//     - LOG_FORMAT (json|console), LOG_ENABLE_FILE, LOG_FILE_PATH
//
//   METRICS:
//     - ISNTPSYNCED_TEXTFILE, METRICS_NAMESPACE
//
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/johnsonjh/isntpsynced/pkg/logger"
)

// Config represents the complete application configuration
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Daemon    DaemonConfig    `yaml:"daemon"`
	Reference ReferenceConfig `yaml:"reference"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// OutputConfig controls how the report is rendered
type OutputConfig struct {
	Format string `yaml:"format"`
}

// DaemonConfig controls the sync daemon lookup
type DaemonConfig struct {
	Disabled bool   `yaml:"disabled"`
	ProcPath string `yaml:"proc_path"`
}

// ReferenceConfig contains the optional reference offset probe configuration
type ReferenceConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Server   string        `yaml:"server"`
	Samples  int           `yaml:"samples"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	Version  int           `yaml:"version"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	EnableFile bool   `yaml:"enable_file"`
	FilePath   string `yaml:"file_path"`
}

// MetricsConfig contains Prometheus textfile configuration
type MetricsConfig struct {
	Textfile  string `yaml:"textfile"`
	Namespace string `yaml:"namespace"`
}

// LoadFromYamlFile reads configuration from a YAML file only (no env var overrides)
func LoadFromYamlFile(path string) (*Config, error) {
	cfg, err := readYamlFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		logger.Error("config", "Invalid configuration", err)
		return nil, fmt.Errorf("configuration validation failed for %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromYamlWithEnvOverrides loads base config from YAML, then overrides with environment variables
// Priority: Environment Variables > YAML File > Defaults
func LoadFromYamlWithEnvOverrides(path string) (*Config, error) {
	cfg, err := readYamlFile(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		logger.Error("config", "Invalid configuration after env overrides", err)
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFromEnvVarsOnly loads configuration from environment variables only (no YAML file)
// Priority: Environment Variables > Defaults
func LoadFromEnvVarsOnly() (*Config, error) {
	cfg := DefaultConfig()

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		logger.Error("config", "Invalid configuration from environment", err)
		return nil, fmt.Errorf("environment configuration validation failed: %w", err)
	}

	return cfg, nil
}

// readYamlFile parses a YAML file and fills in defaults
func readYamlFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("config", "Failed to read config file", err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.Error("config", "Failed to parse config file", err)
		return nil, fmt.Errorf("failed to parse YAML config file %s: %w", path, err)
	}

	ApplyDefaults(cfg)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to an existing config.
// Malformed values are ignored.
func applyEnvOverrides(cfg *Config) {
	// ---------------------------------------------------------------------------
	// OUTPUT
	// ---------------------------------------------------------------------------
	if format := os.Getenv("ISNTPSYNCED_OUTPUT"); format != "" {
		cfg.Output.Format = format
	}

	// ---------------------------------------------------------------------------
	// DAEMON - sync daemon lookup
	// ---------------------------------------------------------------------------
	if disabled := os.Getenv("ISNTPSYNCED_DAEMON_DISABLED"); disabled != "" {
		if b, err := strconv.ParseBool(disabled); err == nil {
			cfg.Daemon.Disabled = b
		}
	}
	if procPath := os.Getenv("ISNTPSYNCED_PROC_PATH"); procPath != "" {
		cfg.Daemon.ProcPath = procPath
	}

	// ---------------------------------------------------------------------------
	// REFERENCE - reference offset probe
	// ---------------------------------------------------------------------------
	if enabled := os.Getenv("ISNTPSYNCED_REFERENCE_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			cfg.Reference.Enabled = b
		}
	}
	if server := os.Getenv("ISNTPSYNCED_REFERENCE_SERVER"); server != "" {
		cfg.Reference.Server = server
	}
	if samples := os.Getenv("ISNTPSYNCED_REFERENCE_SAMPLES"); samples != "" {
		if s, err := strconv.Atoi(samples); err == nil {
			cfg.Reference.Samples = s
		}
	}
	if interval := os.Getenv("ISNTPSYNCED_REFERENCE_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Reference.Interval = d
		}
	}
	if timeout := os.Getenv("ISNTPSYNCED_REFERENCE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Reference.Timeout = d
		}
	}
	if version := os.Getenv("ISNTPSYNCED_REFERENCE_VERSION"); version != "" {
		if v, err := strconv.Atoi(version); err == nil {
			cfg.Reference.Version = v
		}
	}

	// ---------------------------------------------------------------------------
	// LOGGING
	// ---------------------------------------------------------------------------
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if enableFile := os.Getenv("LOG_ENABLE_FILE"); enableFile != "" {
		if b, err := strconv.ParseBool(enableFile); err == nil {
			cfg.Logging.EnableFile = b
		}
	}
	if filePath := os.Getenv("LOG_FILE_PATH"); filePath != "" {
		cfg.Logging.FilePath = filePath
	}

	// ---------------------------------------------------------------------------
	// METRICS - Prometheus textfile
	// ---------------------------------------------------------------------------
	if textfile := os.Getenv("ISNTPSYNCED_TEXTFILE"); textfile != "" {
		cfg.Metrics.Textfile = textfile
	}
	if namespace := os.Getenv("METRICS_NAMESPACE"); namespace != "" {
		cfg.Metrics.Namespace = namespace
	}
}
