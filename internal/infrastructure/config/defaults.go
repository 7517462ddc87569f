package config

// Default configuration constants
const (
	defaultLogLevel             = "info"
	defaultRepairSweepThreshold = 3
	defaultMetricsListenAddr    = "127.0.0.1:9464"
	defaultEventBuffer          = 256 // deliveries
	defaultLogMaxSizeMB         = 10
	defaultLogMaxBackups        = 5
	defaultLogMaxAgeDays        = 7
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			Format:     LogFormatConsole,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   true,
		},
		Focus: FocusConfig{
			AutoFocusTransfer:    true,
			RepairSweepThreshold: defaultRepairSweepThreshold,
		},
		Metrics: MetricsConfig{
			ListenAddr: defaultMetricsListenAddr,
		},
		Headless: HeadlessConfig{
			EventBuffer: defaultEventBuffer,
		},
	}
}
