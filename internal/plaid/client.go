package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// APIVersion is the API version every request is pinned to.
	APIVersion = "2019-05-29"

	defaultTimeout = 60 * time.Second

	// transactionsPageSize is the largest page /transactions/get accepts.
	transactionsPageSize = 500
)

// Environments maps an environment name to its API host.
var Environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Config holds what is needed to talk to the API.
type Config struct {
	ClientID string
	Secret   string
	Env      string // key of Environments
	BaseURL  string // overrides Env when set
	Timeout  time.Duration
}

// Client calls the aggregation API over HTTP. It does not retry.
type Client struct {
	clientID   string
	secret     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		host, ok := Environments[cfg.Env]
		if !ok {
			return nil, fmt.Errorf("NewClient: unknown environment %q", cfg.Env)
		}
		baseURL = host
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetCategories fetches the full category reference list.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var resp categoriesResponse
	if err := c.post(ctx, "/categories/get", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("GetCategories: %w", err)
	}
	return resp.Categories, nil
}

// GetAccounts fetches the accounts and item behind an access token.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	req := accountsRequest{
		credentials: c.credentials(),
		AccessToken: accessToken,
	}

	var resp AccountsResponse
	if err := c.post(ctx, "/accounts/get", req, &resp); err != nil {
		return nil, fmt.Errorf("GetAccounts: %w", err)
	}
	return &resp, nil
}

// GetAllTransactions fetches every transaction dated within [start, end],
// following offset pages until total_transactions is reached.
func (c *Client) GetAllTransactions(ctx context.Context, accessToken string, start, end civil.Date) ([]Transaction, error) {
	var all []Transaction

	for {
		req := transactionsRequest{
			credentials: c.credentials(),
			AccessToken: accessToken,
			StartDate:   start.String(),
			EndDate:     end.String(),
			Options: transactionsOptions{
				Count:  transactionsPageSize,
				Offset: len(all),
			},
		}

		var resp transactionsResponse
		if err := c.post(ctx, "/transactions/get", req, &resp); err != nil {
			return nil, fmt.Errorf("GetAllTransactions: offset %d: %w", len(all), err)
		}

		all = append(all, resp.Transactions...)

		// An empty page guards against a total that never gets reached.
		if len(resp.Transactions) == 0 || len(all) >= resp.TotalTransactions {
			break
		}
	}

	return all, nil
}

func (c *Client) credentials() credentials {
	return credentials{ClientID: c.clientID, Secret: c.secret}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Plaid-Version", APIVersion)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return decodeError(httpResp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}
