package main

import (
	"github.com/dvloznov/finsync/internal/config"
	"github.com/dvloznov/finsync/internal/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
	runID   string
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "finsync",
		Short: "Sync bank data into MySQL upsert files",
		Long: `finsync downloads the category list, accounts and transaction history
for every configured institution and renders each table as a single
INSERT ... ON DUPLICATE KEY UPDATE statement.

Output goes to a local directory, a GCS bucket, or stdout.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./finsync.yaml)")
	flags.Int("history-months", config.DefaultHistoryMonths, "Months of transaction history to fetch")
	flags.Int("concurrency", config.DefaultConcurrency, "Institutions fetched at once")
	flags.Duration("timeout", config.DefaultTimeout, "Deadline for the whole run")
	flags.String("output-dir", config.DefaultOutputDir, "Directory to write <table>.sql files to")
	flags.Bool("stdout", false, "Print SQL to stdout instead of writing files")
	flags.String("gcs-bucket", "", "Upload SQL files to this GCS bucket")
	flags.String("gcs-prefix", config.DefaultGCSPrefix, "Object prefix inside the GCS bucket")
	flags.String("plaid-env", config.DefaultPlaidEnv, "API environment (sandbox|development|production)")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.String("log-format", config.DefaultLogFormat, "Log format (console|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("plaid-env", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sandbox", "development", "production"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{logger.FormatConsole, logger.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newSyncCommand(a))
	rootCmd.AddCommand(newCategoriesCommand(a))
	rootCmd.AddCommand(newAccountsCommand(a))

	return rootCmd
}

// setup loads and validates configuration and builds the run logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.log = logger.WithRun(log, a.runID)
	return nil
}
