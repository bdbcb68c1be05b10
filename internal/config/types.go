// Package config loads finsync settings from defaults, a config file, the
// environment and command-line flags.
package config

import "time"

// Config is the complete finsync configuration.
type Config struct {
	Plaid  PlaidConfig  `koanf:"plaid"`
	Sync   SyncConfig   `koanf:"sync"`
	Output OutputConfig `koanf:"output"`
	Log    LogConfig    `koanf:"log"`
}

// PlaidConfig holds upstream API credentials and the institutions to sync.
type PlaidConfig struct {
	ClientID string `koanf:"client_id"`
	Secret   string `koanf:"secret"`
	Env      string `koanf:"env"`
	// BaseURL overrides the host picked from Env.
	BaseURL string `koanf:"base_url"`
	// InstitutionTokens maps a display label to the institution's access token.
	InstitutionTokens map[string]string `koanf:"institution_tokens"`
}

// SyncConfig controls the sync run.
type SyncConfig struct {
	HistoryMonths int           `koanf:"history_months"`
	Concurrency   int           `koanf:"concurrency"`
	Timeout       time.Duration `koanf:"timeout"`
}

// OutputConfig selects where generated SQL goes. Stdout wins over GCS, and
// GCS wins over the local directory.
type OutputConfig struct {
	Dir                string `koanf:"dir"`
	GCSBucket          string `koanf:"gcs_bucket"`
	GCSPrefix          string `koanf:"gcs_prefix"`
	GCSCredentialsFile string `koanf:"gcs_credentials_file"`
	Stdout             bool   `koanf:"stdout"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
