package config

import "time"

// Default configuration values.
const (
	DefaultPlaidEnv      = "sandbox"
	DefaultHistoryMonths = 60
	DefaultConcurrency   = 1
	DefaultTimeout       = 10 * time.Minute
	DefaultOutputDir     = "tables"
	DefaultGCSPrefix     = "tables"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// EnvPrefix is the prefix of environment variables read by the loader.
// Nested keys are separated by a double underscore, so
// FINSYNC_PLAID__CLIENT_ID sets plaid.client_id.
const EnvPrefix = "FINSYNC_"

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"plaid.env":           DefaultPlaidEnv,
		"sync.history_months": DefaultHistoryMonths,
		"sync.concurrency":    DefaultConcurrency,
		"sync.timeout":        DefaultTimeout,
		"output.dir":          DefaultOutputDir,
		"output.gcs_prefix":   DefaultGCSPrefix,
		"output.stdout":       false,
		"log.level":           DefaultLogLevel,
		"log.format":          DefaultLogFormat,
	}
}
