package rows

import (
	"regexp"

	"github.com/dvloznov/finsync/internal/plaid"
	"github.com/shopspring/decimal"
)

// Table names, also used as artifact names.
const (
	CategoriesTable   = "categories"
	InstitutionsTable = "institutions"
	AccountsTable     = "accounts"
	TransactionsTable = "transactions"
)

// cardPrefix matches the noise some banks put in front of card payments.
var cardPrefix = regexp.MustCompile(`^Ext Credit Card (Debit|Credit) `)

// Category maps a category reference entry. Hierarchy levels past the third
// are dropped; missing levels become NULL.
func Category(c plaid.Category) Row {
	return Row{
		{"id", str(c.CategoryID)},
		{"group", str(c.Group)},
		{"category", level(c.Hierarchy, 0)},
		{"category1", level(c.Hierarchy, 1)},
		{"category2", level(c.Hierarchy, 2)},
	}
}

// Institution maps an item's institution to the label it was configured under.
func Institution(institutionID *string, label string) Row {
	return Row{
		{"id", str(institutionID)},
		{"name", label},
	}
}

// Account maps one account. Liability balances are sign-flipped so a positive
// balance_current always means money the holder owns.
func Account(a plaid.Account, institutionID *string) Row {
	name := a.Name
	if a.OfficialName != nil && *a.OfficialName != "" {
		name = a.OfficialName
	}

	return Row{
		{"id", str(a.AccountID)},
		{"institution_id", str(institutionID)},
		{"balance_current", money(SignedBalance(a.Type, a.Balances.Current))},
		{"mask", str(a.Mask)},
		{"name", str(name)},
		{"type", str(a.Type)},
		{"subtype", str(a.Subtype)},
	}
}

// Transaction maps one transaction. The second result is false for pending
// transactions, which are never written.
func Transaction(t plaid.Transaction) (Row, bool) {
	if t.Pending {
		return nil, false
	}

	var name *string
	if t.Name != nil {
		stripped := StripCardPrefix(*t.Name)
		name = &stripped
	}

	amount := t.Amount
	if amount.Valid {
		amount.Decimal = amount.Decimal.Neg()
	}

	var date any
	if t.Date != nil {
		date = *t.Date
	}

	return Row{
		{"id", str(t.TransactionID)},
		{"account_id", str(t.AccountID)},
		{"name", str(name)},
		{"amount", money(amount)},
		{"date", date},
		{"category_id", str(t.CategoryID)},
		{"currency_code", str(t.ISOCurrencyCode)},
		{"location_city", str(t.Location.City)},
		{"location_state", str(t.Location.Region)},
		{"location_country", str(InferCountry(t.Location.Country, t.Location.Region, t.ISOCurrencyCode))},
		{"payment_channel", str(t.PaymentChannel)},
	}, true
}

// StripCardPrefix removes a leading "Ext Credit Card Debit " or
// "Ext Credit Card Credit " from a transaction name.
func StripCardPrefix(name string) string {
	if loc := cardPrefix.FindStringIndex(name); loc != nil {
		return name[loc[1]:]
	}
	return name
}

// InferCountry fills in "US" for USD transactions that carry a region but no
// country. Otherwise country is returned as is.
func InferCountry(country, region, currency *string) *string {
	if !blank(country) {
		return country
	}
	if !blank(region) && currency != nil && *currency == "USD" {
		us := "US"
		return &us
	}
	return country
}

// SignedBalance negates current for credit and loan accounts.
func SignedBalance(accountType *string, current decimal.NullDecimal) decimal.NullDecimal {
	if !current.Valid || accountType == nil {
		return current
	}
	switch *accountType {
	case "credit", "loan":
		return decimal.NewNullDecimal(current.Decimal.Neg())
	}
	return current
}

func level(hierarchy []string, i int) any {
	if i < len(hierarchy) {
		return hierarchy[i]
	}
	return nil
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func money(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

func blank(p *string) bool {
	return p == nil || *p == ""
}
