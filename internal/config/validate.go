package config

import (
	"errors"
	"fmt"

	"github.com/dvloznov/finsync/internal/logger"
	"github.com/dvloznov/finsync/internal/plaid"
)

// Validate checks that the configuration can drive a sync run.
func (c *Config) Validate() error {
	var errs []error

	if c.Plaid.ClientID == "" {
		errs = append(errs, errors.New("plaid.client_id is required"))
	}
	if c.Plaid.Secret == "" {
		errs = append(errs, errors.New("plaid.secret is required"))
	}
	if _, ok := plaid.Environments[c.Plaid.Env]; !ok {
		errs = append(errs, fmt.Errorf("plaid.env %q is not one of sandbox, development, production", c.Plaid.Env))
	}
	for label, token := range c.Plaid.InstitutionTokens {
		if token == "" {
			errs = append(errs, fmt.Errorf("plaid.institution_tokens.%s has no access token", label))
		}
	}

	if c.Sync.HistoryMonths < 0 {
		errs = append(errs, fmt.Errorf("sync.history_months must not be negative, got %d", c.Sync.HistoryMonths))
	}
	if c.Sync.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("sync.concurrency must be at least 1, got %d", c.Sync.Concurrency))
	}
	if c.Sync.Timeout < 0 {
		errs = append(errs, fmt.Errorf("sync.timeout must not be negative, got %s", c.Sync.Timeout))
	}

	if !c.Output.Stdout && c.Output.GCSBucket == "" && c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required when neither output.stdout nor output.gcs_bucket is set"))
	}

	switch c.Log.Format {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of console, json", c.Log.Format))
	}

	return errors.Join(errs...)
}
