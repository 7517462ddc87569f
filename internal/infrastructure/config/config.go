// Package config loads, validates, watches and writes the focuscore
// configuration (TOML file, FOCUSCORE_ environment variables, defaults).
package config

import "time"

const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for focuscore.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging" json:"logging"`
	// Focus tunes the focus manager.
	Focus FocusConfig `mapstructure:"focus" yaml:"focus" toml:"focus" json:"focus"`
	// Metrics controls the Prometheus exporter.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" toml:"metrics" json:"metrics"`
	// Headless configures the in-memory toolkit used by focusctl.
	Headless HeadlessConfig `mapstructure:"headless" yaml:"headless" toml:"headless" json:"headless"`
}

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

type LoggingConfig struct {
	Level  string    `mapstructure:"level" yaml:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format LogFormat `mapstructure:"format" yaml:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// FileDir additionally writes JSON logs to a rotated focuscore.log in this directory.
	FileDir    string `mapstructure:"file_dir" yaml:"file_dir" toml:"file_dir" json:"file_dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=0"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days" json:"max_age_days" jsonschema:"minimum=0"`
	Compress   bool   `mapstructure:"compress" yaml:"compress" toml:"compress" json:"compress"`
}

// FocusConfig holds the focus manager options.
type FocusConfig struct {
	// AutoFocusTransfer restores focus when the new owner turns out to be ineligible.
	AutoFocusTransfer bool `mapstructure:"auto_focus_transfer" yaml:"auto_focus_transfer" toml:"auto_focus_transfer" json:"auto_focus_transfer"`
	// SyncLightweightRequests lets lightweight transfers inside the focused
	// native container complete without a native round-trip.
	SyncLightweightRequests bool `mapstructure:"sync_lightweight_requests" yaml:"sync_lightweight_requests" toml:"sync_lightweight_requests" json:"sync_lightweight_requests"`
	// RepairSweepThreshold is the number of consecutive unexpected native
	// events after which all type-ahead markers are dropped.
	RepairSweepThreshold int `mapstructure:"repair_sweep_threshold" yaml:"repair_sweep_threshold" toml:"repair_sweep_threshold" json:"repair_sweep_threshold" jsonschema:"minimum=1"`
	// TypeAheadTimeoutMs expires type-ahead markers (0 = never).
	TypeAheadTimeoutMs int `mapstructure:"typeahead_timeout_ms" yaml:"typeahead_timeout_ms" toml:"typeahead_timeout_ms" json:"typeahead_timeout_ms" jsonschema:"minimum=0"`
}

// TypeAheadTimeout returns the marker timeout as a duration.
func (c FocusConfig) TypeAheadTimeout() time.Duration {
	return time.Duration(c.TypeAheadTimeoutMs) * time.Millisecond
}

type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr" toml:"listen_addr" json:"listen_addr"`
}

type HeadlessConfig struct {
	// EventBuffer is the number of delivered events kept for traces.
	EventBuffer int `mapstructure:"event_buffer" yaml:"event_buffer" toml:"event_buffer" json:"event_buffer" jsonschema:"minimum=1"`
}
