package config

import (
	"fmt"
	"strconv"

	"github.com/bnema/focuscore/internal/domain/entity"
)

// Section names for grouping config keys.
const (
	SectionLogging  = "Logging"
	SectionFocus    = "Focus"
	SectionMetrics  = "Metrics"
	SectionHeadless = "Headless"
)

// SchemaProvider implements port.ConfigSchemaProvider.
type SchemaProvider struct{}

// NewSchemaProvider creates a new SchemaProvider.
func NewSchemaProvider() *SchemaProvider {
	return &SchemaProvider{}
}

// GetSchema returns all configuration keys with their metadata.
func (p *SchemaProvider) GetSchema() []entity.ConfigKeyInfo {
	defaults := DefaultConfig()

	keys := make([]entity.ConfigKeyInfo, 0, 16)
	keys = append(keys, p.getLoggingKeys(defaults)...)
	keys = append(keys, p.getFocusKeys(defaults)...)
	keys = append(keys, p.getMetricsKeys(defaults)...)
	keys = append(keys, p.getHeadlessKeys(defaults)...)
	return keys
}

func (*SchemaProvider) getLoggingKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "logging.level",
			Type:        "string",
			Default:     defaults.Logging.Level,
			Description: "Log verbosity level",
			Values:      validLogLevels,
			Section:     SectionLogging,
		},
		{
			Key:         "logging.format",
			Type:        "string",
			Default:     string(defaults.Logging.Format),
			Description: "Console output format",
			Values:      []string{string(LogFormatConsole), string(LogFormatJSON)},
			Section:     SectionLogging,
		},
		{
			Key:         "logging.file_dir",
			Type:        "string",
			Default:     defaults.Logging.FileDir,
			Description: "Directory of the rotated JSON log file (empty disables it)",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.max_size_mb",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Logging.MaxSizeMB),
			Description: "Rotate the log file past this size (0 = never)",
			Range:       ">=0",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.max_backups",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Logging.MaxBackups),
			Description: "Rotated files to keep (0 = all)",
			Range:       ">=0",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.max_age_days",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Logging.MaxAgeDays),
			Description: "Maximum age of rotated files in days (0 = forever)",
			Range:       ">=0",
			Section:     SectionLogging,
		},
		{
			Key:         "logging.compress",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Logging.Compress),
			Description: "Gzip rotated log files",
			Section:     SectionLogging,
		},
	}
}

func (*SchemaProvider) getFocusKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "focus.auto_focus_transfer",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Focus.AutoFocusTransfer),
			Description: "Move focus on when the new owner turns out to be ineligible",
			Section:     SectionFocus,
		},
		{
			Key:         "focus.sync_lightweight_requests",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Focus.SyncLightweightRequests),
			Description: "Complete lightweight transfers inside the focused native container without a native round-trip",
			Section:     SectionFocus,
		},
		{
			Key:         "focus.repair_sweep_threshold",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Focus.RepairSweepThreshold),
			Description: "Unexpected native events in a row before all type-ahead markers are dropped",
			Range:       ">=1",
			Section:     SectionFocus,
		},
		{
			Key:         "focus.typeahead_timeout_ms",
			Type:        "int",
			Default:     strconv.Itoa(defaults.Focus.TypeAheadTimeoutMs),
			Description: "Expire type-ahead markers after this many milliseconds (0 = never)",
			Range:       ">=0",
			Section:     SectionFocus,
		},
	}
}

func (*SchemaProvider) getMetricsKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "metrics.enabled",
			Type:        "bool",
			Default:     strconv.FormatBool(defaults.Metrics.Enabled),
			Description: "Serve Prometheus metrics while a command runs",
			Section:     SectionMetrics,
		},
		{
			Key:         "metrics.listen_addr",
			Type:        "string",
			Default:     defaults.Metrics.ListenAddr,
			Description: "Listen address of the /metrics and /health endpoints",
			Section:     SectionMetrics,
		},
	}
}

func (*SchemaProvider) getHeadlessKeys(defaults *Config) []entity.ConfigKeyInfo {
	return []entity.ConfigKeyInfo{
		{
			Key:         "headless.event_buffer",
			Type:        "int",
			Default:     fmt.Sprintf("%d", defaults.Headless.EventBuffer),
			Description: "Delivered events kept for traces",
			Range:       ">=1",
			Section:     SectionHeadless,
		},
	}
}
