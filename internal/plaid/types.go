package plaid

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Category is one entry of the category reference list.
type Category struct {
	CategoryID *string  `json:"category_id"`
	Group      *string  `json:"group"`
	Hierarchy  []string `json:"hierarchy"` // most general level first
}

// Balances holds the balances reported for an account. Any of them may be null.
type Balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.NullDecimal `json:"current"`
	Limit           decimal.NullDecimal `json:"limit"`
	ISOCurrencyCode *string             `json:"iso_currency_code"`
}

// Account is a single account under an item.
type Account struct {
	AccountID    *string  `json:"account_id"`
	Balances     Balances `json:"balances"`
	Mask         *string  `json:"mask"`
	Name         *string  `json:"name"`
	OfficialName *string  `json:"official_name"`
	Type         *string  `json:"type"`
	Subtype      *string  `json:"subtype"`
}

// Item is the login at one institution that an access token belongs to.
type Item struct {
	ItemID        *string `json:"item_id"`
	InstitutionID *string `json:"institution_id"`
}

// Location is the merchant location attached to a transaction.
type Location struct {
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Region      *string `json:"region"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
	StoreNumber *string `json:"store_number"`
}

// Transaction is one posted or pending transaction. Amount is positive for
// money leaving the account.
type Transaction struct {
	TransactionID   *string             `json:"transaction_id"`
	AccountID       *string             `json:"account_id"`
	Name            *string             `json:"name"`
	MerchantName    *string             `json:"merchant_name"`
	Amount          decimal.NullDecimal `json:"amount"`
	ISOCurrencyCode *string             `json:"iso_currency_code"`
	Date            *civil.Date         `json:"date"`
	CategoryID      *string             `json:"category_id"`
	Category        []string            `json:"category"`
	Location        Location            `json:"location"`
	PaymentChannel  *string             `json:"payment_channel"`
	Pending         bool                `json:"pending"`
}

// AccountsResponse is the payload of /accounts/get.
type AccountsResponse struct {
	Accounts  []Account `json:"accounts"`
	Item      Item      `json:"item"`
	RequestID string    `json:"request_id"`
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
	RequestID  string     `json:"request_id"`
}

type transactionsResponse struct {
	Accounts          []Account     `json:"accounts"`
	Transactions      []Transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
	RequestID         string        `json:"request_id"`
}

type credentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type accountsRequest struct {
	credentials
	AccessToken string `json:"access_token"`
}

type transactionsOptions struct {
	Count  int `json:"count"`
	Offset int `json:"offset"`
}

type transactionsRequest struct {
	credentials
	AccessToken string              `json:"access_token"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Options     transactionsOptions `json:"options"`
}

// StrPtr is a small helper for building records in code and tests.
func StrPtr(s string) *string {
	return &s
}
