package plaidsync

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finsync/internal/plaid"
)

// API defines the upstream calls a sync needs.
// This interface enables mocking and testing of sync runs.
type API interface {
	// GetCategories fetches the full category reference list.
	GetCategories(ctx context.Context) ([]plaid.Category, error)

	// GetAccounts fetches the accounts and item behind an access token.
	GetAccounts(ctx context.Context, accessToken string) (*plaid.AccountsResponse, error)

	// GetAllTransactions fetches every transaction dated within [start, end].
	GetAllTransactions(ctx context.Context, accessToken string, start, end civil.Date) ([]plaid.Transaction, error)
}

var _ API = (*plaid.Client)(nil)
