package config

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if err := validateOutput(&cfg.Output); err != nil {
		return err
	}

	if err := validateDaemon(&cfg.Daemon); err != nil {
		return err
	}

	if err := validateReference(&cfg.Reference); err != nil {
		return err
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}

	if err := validateMetrics(&cfg.Metrics); err != nil {
		return err
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	if cfg.Format != "text" && cfg.Format != "json" {
		return errors.New("invalid output format " + strconv.Quote(cfg.Format) + " (must be text or json)")
	}
	return nil
}

func validateDaemon(cfg *DaemonConfig) error {
	if !cfg.Disabled && cfg.ProcPath == "" {
		return errors.New("daemon.proc_path is required when daemon lookup is enabled")
	}
	return nil
}

func validateReference(cfg *ReferenceConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Server == "" {
		return errors.New("reference.server is required when reference is enabled")
	}

	if cfg.Samples < 1 || cfg.Samples > 10 {
		return errors.New("reference.samples must be between 1 and 10, got " + strconv.Itoa(cfg.Samples))
	}

	if cfg.Interval < 0 || cfg.Interval > 10*time.Second {
		return errors.New("reference.interval must be between 0s and 10s")
	}

	if cfg.Timeout < 1*time.Second || cfg.Timeout > 30*time.Second {
		return errors.New("reference.timeout must be between 1s and 30s")
	}

	if cfg.Version < 2 || cfg.Version > 4 {
		return errors.New("reference.version must be 2, 3, or 4, got " + strconv.Itoa(cfg.Version))
	}

	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLevels[cfg.Level] {
		return errors.New("invalid log level (must be trace, debug, info, warn, error, or off)")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[cfg.Format] {
		return errors.New("invalid log format (must be json or console)")
	}

	if cfg.EnableFile && cfg.FilePath == "" {
		return errors.New("file_path is required when enable_file is true")
	}

	return nil
}

func validateMetrics(cfg *MetricsConfig) error {
	if !namespacePattern.MatchString(cfg.Namespace) {
		return errors.New("metrics.namespace must match [a-zA-Z_][a-zA-Z0-9_]*")
	}

	return nil
}
