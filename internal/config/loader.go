package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DotEnvFile is loaded into the process environment before anything else.
// Variables already set in the environment are left alone.
var DotEnvFile = ".env"

// configFileNames are looked up in the working directory when no config
// file is given explicitly.
var configFileNames = []string{"finsync.yaml", "finsync.yml", "finsync.json"}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"history-months": "sync.history_months",
	"concurrency":    "sync.concurrency",
	"timeout":        "sync.timeout",
	"output-dir":     "output.dir",
	"stdout":         "output.stdout",
	"gcs-bucket":     "output.gcs_bucket",
	"gcs-prefix":     "output.gcs_prefix",
	"plaid-env":      "plaid.env",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// findConfigFile returns the config file to read, or "" if there is none.
// Priority: explicit path > finsync.yaml > finsync.yml > finsync.json
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// parserFor picks the koanf parser from the file extension. Anything that
// is not .json is read as YAML.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// envKey turns FINSYNC_PLAID__CLIENT_ID into plaid.client_id.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads configuration from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Load: reading %s: %w", DotEnvFile, err)
	}

	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("Load: loading defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("Load: reading config file %s: %w", path, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("Load: loading env vars: %w", err)
	}

	// 4. Flags, only those set explicitly
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("Load: loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("Load: decoding config: %w", err)
	}

	return &cfg, nil
}
