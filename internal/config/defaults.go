package config

import "time"

// ApplyDefaults sets default values for unspecified configuration fields
func ApplyDefaults(cfg *Config) {
	// Output defaults
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}

	// Daemon lookup defaults
	if cfg.Daemon.ProcPath == "" {
		cfg.Daemon.ProcPath = "/proc"
	}

	// Reference probe defaults (disabled by default)
	if cfg.Reference.Server == "" {
		cfg.Reference.Server = "pool.ntp.org"
	}
	if cfg.Reference.Samples == 0 {
		cfg.Reference.Samples = 3
	}
	if cfg.Reference.Timeout == 0 {
		cfg.Reference.Timeout = 5 * time.Second
	}
	if cfg.Reference.Version == 0 {
		cfg.Reference.Version = 4
	}

	// Logging defaults: stdout carries the report, so logs go to stderr
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "isntpsynced"
	}
}

// DefaultConfig returns a configuration with all defaults applied
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
