package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "disabled", "off"}

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateFocus(config)...)
	validationErrors = append(validationErrors, validateMetrics(config)...)
	validationErrors = append(validationErrors, validateHeadless(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

// Validate checks cfg the same way Load does.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return validateConfig(cfg)
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	if !slices.Contains(validLogLevels, config.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of %s (got %q)",
			strings.Join(validLogLevels, ", "), config.Logging.Level))
	}
	if config.Logging.MaxSizeMB < 0 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be non-negative")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	if config.Logging.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging.max_age_days must be non-negative")
	}
	return validationErrors
}

func validateFocus(config *Config) []string {
	var validationErrors []string
	if config.Focus.RepairSweepThreshold < 1 {
		validationErrors = append(validationErrors, "focus.repair_sweep_threshold must be at least 1")
	}
	if config.Focus.TypeAheadTimeoutMs < 0 {
		validationErrors = append(validationErrors, "focus.typeahead_timeout_ms must be non-negative")
	}
	return validationErrors
}

func validateMetrics(config *Config) []string {
	if !config.Metrics.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(config.Metrics.ListenAddr); err != nil {
		return []string{fmt.Sprintf("metrics.listen_addr %q is not host:port: %v", config.Metrics.ListenAddr, err)}
	}
	return nil
}

func validateHeadless(config *Config) []string {
	if config.Headless.EventBuffer < 1 {
		return []string{"headless.event_buffer must be positive"}
	}
	return nil
}
