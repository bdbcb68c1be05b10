package plaidsync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finsync/internal/logger"
	"github.com/dvloznov/finsync/internal/rows"
	"github.com/dvloznov/finsync/internal/tablewriter"
	"github.com/dvloznov/finsync/internal/upsert"
	"golang.org/x/sync/errgroup"
)

// DefaultHistoryMonths is how far back transactions are fetched by default.
const DefaultHistoryMonths = 5 * 12

// Syncer pulls upstream data and writes one upsert statement per table.
type Syncer struct {
	api         API
	writer      tablewriter.TableWriter
	now         func() time.Time
	concurrency int
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithClock overrides the clock used for the transaction history window.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithConcurrency sets how many institutions are fetched at once.
// Values below 2 keep fetching sequential.
func WithConcurrency(n int) Option {
	return func(s *Syncer) { s.concurrency = n }
}

// NewSyncer creates a Syncer reading from api and writing through w.
func NewSyncer(api API, w tablewriter.TableWriter, opts ...Option) *Syncer {
	s := &Syncer{
		api:         api,
		writer:      w,
		now:         time.Now,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the category and account syncs side by side. A failure in one
// does not stop the other; both errors are returned joined.
func (s *Syncer) Run(ctx context.Context, institutionTokens map[string]string, historyMonths int) error {
	log := logger.FromContext(ctx)

	var g errgroup.Group
	var categoriesErr, accountsErr error

	g.Go(func() error {
		if categoriesErr = s.SyncCategories(ctx); categoriesErr != nil {
			log.Error().Err(categoriesErr).Msg("Category sync failed")
		}
		return nil
	})
	g.Go(func() error {
		if accountsErr = s.SyncAccounts(ctx, institutionTokens, historyMonths); accountsErr != nil {
			log.Error().Err(accountsErr).Msg("Account sync failed")
		}
		return nil
	})
	_ = g.Wait()

	return errors.Join(categoriesErr, accountsErr)
}

// SyncCategories fetches the category list and writes the categories table.
func (s *Syncer) SyncCategories(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info().Msg("Starting category sync")

	categories, err := s.api.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("SyncCategories: fetching categories: %w", err)
	}

	log.Info().Int("category_count", len(categories)).Msg("Retrieved categories")

	categoryRows := make([]rows.Row, 0, len(categories))
	for _, c := range categories {
		categoryRows = append(categoryRows, rows.Category(c))
	}

	if err := s.writeTable(ctx, rows.CategoriesTable, categoryRows); err != nil {
		return fmt.Errorf("SyncCategories: %w", err)
	}

	log.Info().Msg("Category sync completed")
	return nil
}

// institutionRows holds everything fetched for one institution.
type institutionRows struct {
	institution  rows.Row
	accounts     []rows.Row
	transactions []rows.Row
	skipped      int
}

// SyncAccounts fetches accounts and transaction history for every
// institution and writes the accounts, institutions and transactions tables.
// Tables are written only after every institution has been fetched, so a
// failure anywhere leaves all three untouched.
func (s *Syncer) SyncAccounts(ctx context.Context, institutionTokens map[string]string, historyMonths int) error {
	log := logger.FromContext(ctx)

	start, end := HistoryWindow(civil.DateOf(s.now()), historyMonths)

	labels := make([]string, 0, len(institutionTokens))
	for label := range institutionTokens {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	log.Info().
		Int("institution_count", len(labels)).
		Str("start_date", start.String()).
		Str("end_date", end.String()).
		Int("concurrency", s.concurrency).
		Msg("Starting account sync")

	results := make([]*institutionRows, len(labels))
	fetch := func(ctx context.Context, i int) error {
		res, err := s.fetchInstitution(ctx, labels[i], institutionTokens[labels[i]], start, end)
		if err != nil {
			return fmt.Errorf("SyncAccounts: institution %q: %w", labels[i], err)
		}
		results[i] = res
		return nil
	}

	if s.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for i := range labels {
			i := i
			g.Go(func() error { return fetch(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for i := range labels {
			if err := fetch(ctx, i); err != nil {
				return err
			}
		}
	}

	var accountRows, institutionTableRows, transactionRows []rows.Row
	var skipped int
	for _, res := range results {
		institutionTableRows = append(institutionTableRows, res.institution)
		accountRows = append(accountRows, res.accounts...)
		transactionRows = append(transactionRows, res.transactions...)
		skipped += res.skipped
	}

	tables := []rows.Table{
		{Name: rows.AccountsTable, Rows: accountRows},
		{Name: rows.InstitutionsTable, Rows: institutionTableRows},
		{Name: rows.TransactionsTable, Rows: transactionRows},
	}
	for _, t := range tables {
		if err := s.writeTable(ctx, t.Name, t.Rows); err != nil {
			return fmt.Errorf("SyncAccounts: %w", err)
		}
	}

	log.Info().
		Int("accounts", len(accountRows)).
		Int("institutions", len(institutionTableRows)).
		Int("transactions", len(transactionRows)).
		Int("pending_skipped", skipped).
		Msg("Account sync completed")

	return nil
}

// fetchInstitution downloads one institution's accounts and transactions
// and maps them to rows.
func (s *Syncer) fetchInstitution(ctx context.Context, label, accessToken string, start, end civil.Date) (*institutionRows, error) {
	log := logger.FromContext(ctx).With().Str("institution", label).Logger()
	log.Info().Msg("Downloading institution data")

	accounts, err := s.api.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}

	institutionID := accounts.Item.InstitutionID
	res := &institutionRows{
		institution: rows.Institution(institutionID, label),
		accounts:    make([]rows.Row, 0, len(accounts.Accounts)),
	}
	for _, acc := range accounts.Accounts {
		res.accounts = append(res.accounts, rows.Account(acc, institutionID))
	}

	transactions, err := s.api.GetAllTransactions(ctx, accessToken, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}

	res.transactions = make([]rows.Row, 0, len(transactions))
	for _, tx := range transactions {
		row, ok := rows.Transaction(tx)
		if !ok {
			res.skipped++
			continue
		}
		res.transactions = append(res.transactions, row)
	}

	log.Info().
		Int("account_count", len(res.accounts)).
		Int("transaction_count", len(res.transactions)).
		Int("pending_skipped", res.skipped).
		Msg("Institution data downloaded")

	return res, nil
}

// writeTable serializes a table and hands it to the writer.
func (s *Syncer) writeTable(ctx context.Context, table string, tableRows []rows.Row) error {
	sqlText := upsert.Serialize(table, tableRows)

	if err := s.writer.Write(ctx, table, sqlText); err != nil {
		return fmt.Errorf("writing table %s: %w", table, err)
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("table", table).
		Int("rows", len(tableRows)).
		Int("bytes", len(sqlText)).
		Msg("Table written")

	return nil
}
