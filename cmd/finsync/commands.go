package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/finsync/internal/config"
	"github.com/dvloznov/finsync/internal/logger"
	"github.com/dvloznov/finsync/internal/plaid"
	"github.com/dvloznov/finsync/internal/plaidsync"
	"github.com/dvloznov/finsync/internal/tablewriter"
	"github.com/spf13/cobra"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync categories and accounts",
		Long: `Runs the category sync and the account sync side by side. A failure
in one does not stop the other; the command fails if either did.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "sync", func(ctx context.Context, s *plaidsync.Syncer) error {
				return s.Run(ctx, a.cfg.Plaid.InstitutionTokens, a.cfg.Sync.HistoryMonths)
			})
		},
	}
}

func newCategoriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Write the categories table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "categories", func(ctx context.Context, s *plaidsync.Syncer) error {
				return s.SyncCategories(ctx)
			})
		},
	}
}

func newAccountsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Write the accounts, institutions and transactions tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "accounts", func(ctx context.Context, s *plaidsync.Syncer) error {
				return s.SyncAccounts(ctx, a.cfg.Plaid.InstitutionTokens, a.cfg.Sync.HistoryMonths)
			})
		},
	}
}

// run wires the API client and table writer from config and hands a
// Syncer to job.
func (a *app) run(cmd *cobra.Command, name string, job func(ctx context.Context, s *plaidsync.Syncer) error) error {
	ctx := cmd.Context()
	if a.cfg.Sync.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Sync.Timeout)
		defer cancel()
	}

	log := a.log.With().Str("command", name).Logger()
	ctx = logger.WithContext(ctx, log)

	if len(a.cfg.Plaid.InstitutionTokens) == 0 && name != "categories" {
		log.Warn().Msg("No institutions configured, account tables will be empty")
	}

	writer, closeWriter, err := openWriter(ctx, a.cfg.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeWriter()

	client, err := plaid.NewClient(plaid.Config{
		ClientID: a.cfg.Plaid.ClientID,
		Secret:   a.cfg.Plaid.Secret,
		Env:      a.cfg.Plaid.Env,
		BaseURL:  a.cfg.Plaid.BaseURL,
	})
	if err != nil {
		return err
	}

	syncer := plaidsync.NewSyncer(client, writer, plaidsync.WithConcurrency(a.cfg.Sync.Concurrency))

	started := time.Now()
	log.Info().
		Str("plaid_env", a.cfg.Plaid.Env).
		Int("history_months", a.cfg.Sync.HistoryMonths).
		Msg("Starting run")

	if err := job(ctx, syncer); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("Run failed")
		return fmt.Errorf("%s: %w", name, err)
	}

	log.Info().Dur("elapsed", time.Since(started)).Msg("Run completed")
	return nil
}

// openWriter picks the table writer: stdout, then GCS, then a local
// directory. The returned func releases whatever the writer holds.
func openWriter(ctx context.Context, out config.OutputConfig, stdout io.Writer) (tablewriter.TableWriter, func(), error) {
	log := logger.FromContext(ctx)

	switch {
	case out.Stdout:
		log.Debug().Msg("Writing tables to stdout")
		return tablewriter.NewStreamWriter(stdout), func() {}, nil

	case out.GCSBucket != "":
		w, err := tablewriter.NewGCSWriter(ctx, out.GCSBucket, out.GCSPrefix, out.GCSCredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("bucket", out.GCSBucket).Str("prefix", out.GCSPrefix).Msg("Writing tables to GCS")
		return w, func() {
			if err := w.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close storage client")
			}
		}, nil

	default:
		log.Debug().Str("dir", out.Dir).Msg("Writing tables to directory")
		return tablewriter.NewDirWriter(out.Dir), func() {}, nil
	}
}
