package rows

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finsync/internal/plaid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sp = plaid.StrPtr

func TestCategory(t *testing.T) {
	tests := []struct {
		name      string
		hierarchy []string
		want      []any
	}{
		{name: "three levels", hierarchy: []string{"Food", "Restaurants", "Coffee"}, want: []any{"Food", "Restaurants", "Coffee"}},
		{name: "one level", hierarchy: []string{"Transfer"}, want: []any{"Transfer", nil, nil}},
		{name: "no hierarchy", hierarchy: nil, want: []any{nil, nil, nil}},
		{name: "extra levels dropped", hierarchy: []string{"a", "b", "c", "d"}, want: []any{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Category(plaid.Category{CategoryID: sp("13005000"), Group: sp("place"), Hierarchy: tt.hierarchy})

			assert.Equal(t, []string{"id", "group", "category", "category1", "category2"}, row.Columns())
			assert.Equal(t, "13005000", row[0].Value)
			assert.Equal(t, "place", row[1].Value)
			assert.Equal(t, tt.want, []any{row[2].Value, row[3].Value, row[4].Value})
		})
	}
}

func TestInstitution(t *testing.T) {
	row := Institution(sp("ins_3"), "Chase")
	assert.Equal(t, Row{{"id", "ins_3"}, {"name", "Chase"}}, row)

	row = Institution(nil, "Unknown")
	assert.Nil(t, row[0].Value)
}

func TestAccount_BalanceSign(t *testing.T) {
	tests := []struct {
		accountType string
		current     string
		want        string
	}{
		{"credit", "250.10", "-250.1"},
		{"loan", "-12", "12"},
		{"depository", "99.99", "99.99"},
		{"investment", "-5", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.accountType, func(t *testing.T) {
			acc := plaid.Account{
				AccountID: sp("acc1"),
				Type:      sp(tt.accountType),
				Balances:  plaid.Balances{Current: decimal.NewNullDecimal(decimal.RequireFromString(tt.current))},
			}

			row := Account(acc, sp("ins_1"))
			v, ok := row.Get("balance_current")
			require.True(t, ok)
			assert.Equal(t, tt.want, v.(decimal.Decimal).String())
		})
	}
}

func TestAccount_NullBalanceStaysNull(t *testing.T) {
	row := Account(plaid.Account{Type: sp("credit")}, nil)

	v, _ := row.Get("balance_current")
	assert.Nil(t, v)
}

func TestAccount_Name(t *testing.T) {
	tests := []struct {
		name         string
		plainName    *string
		officialName *string
		want         any
	}{
		{name: "official wins", plainName: sp("Card"), officialName: sp("Sapphire Preferred"), want: "Sapphire Preferred"},
		{name: "empty official falls back", plainName: sp("Card"), officialName: sp(""), want: "Card"},
		{name: "missing official falls back", plainName: sp("Checking"), want: "Checking"},
		{name: "both missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Account(plaid.Account{Name: tt.plainName, OfficialName: tt.officialName}, nil)
			v, _ := row.Get("name")
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestAccount_Columns(t *testing.T) {
	row := Account(plaid.Account{}, nil)
	assert.Equal(t, []string{"id", "institution_id", "balance_current", "mask", "name", "type", "subtype"}, row.Columns())
}

func TestTransaction_PendingSkipped(t *testing.T) {
	_, ok := Transaction(plaid.Transaction{TransactionID: sp("t1"), Pending: true})
	assert.False(t, ok)
}

func TestTransaction(t *testing.T) {
	date := civil.Date{Year: 2024, Month: 5, Day: 2}
	tx := plaid.Transaction{
		TransactionID:   sp("t1"),
		AccountID:       sp("acc1"),
		Name:            sp("Ext Credit Card Debit STARBUCKS"),
		Amount:          decimal.NewNullDecimal(decimal.RequireFromString("4.33")),
		ISOCurrencyCode: sp("USD"),
		Date:            &date,
		CategoryID:      sp("13005043"),
		Location:        plaid.Location{City: sp("San Francisco"), Region: sp("CA")},
		PaymentChannel:  sp("in store"),
	}

	row, ok := Transaction(tx)
	require.True(t, ok)

	assert.Equal(t, []string{
		"id", "account_id", "name", "amount", "date", "category_id", "currency_code",
		"location_city", "location_state", "location_country", "payment_channel",
	}, row.Columns())

	get := func(col string) any {
		v, ok := row.Get(col)
		require.True(t, ok, col)
		return v
	}
	assert.Equal(t, "STARBUCKS", get("name"))
	assert.Equal(t, "-4.33", get("amount").(decimal.Decimal).String())
	assert.Equal(t, date, get("date"))
	assert.Equal(t, "CA", get("location_state"))
	assert.Equal(t, "US", get("location_country"))
	assert.Equal(t, "in store", get("payment_channel"))

	// the input record is left alone
	assert.Equal(t, "Ext Credit Card Debit STARBUCKS", *tx.Name)
	assert.Nil(t, tx.Location.Country)
}

func TestTransaction_Refund(t *testing.T) {
	row, ok := Transaction(plaid.Transaction{Amount: decimal.NewNullDecimal(decimal.RequireFromString("-20"))})
	require.True(t, ok)

	v, _ := row.Get("amount")
	assert.Equal(t, "20", v.(decimal.Decimal).String())
}

func TestTransaction_MissingFieldsAreNull(t *testing.T) {
	row, ok := Transaction(plaid.Transaction{})
	require.True(t, ok)

	for _, f := range row {
		assert.Nil(t, f.Value, f.Column)
	}
}

func TestStripCardPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ext Credit Card Debit STARBUCKS", "STARBUCKS"},
		{"Ext Credit Card Credit AMAZON REFUND", "AMAZON REFUND"},
		{"STARBUCKS", "STARBUCKS"},
		{"Paid via Ext Credit Card Debit X", "Paid via Ext Credit Card Debit X"},
		{"Ext Credit Card Payment X", "Ext Credit Card Payment X"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCardPrefix(tt.in))
		})
	}
}

func TestInferCountry(t *testing.T) {
	tests := []struct {
		name     string
		country  *string
		region   *string
		currency *string
		want     *string
	}{
		{name: "usd with region", region: sp("CA"), currency: sp("USD"), want: sp("US")},
		{name: "empty country counts as missing", country: sp(""), region: sp("NY"), currency: sp("USD"), want: sp("US")},
		{name: "eur stays null", region: sp("BY"), currency: sp("EUR"), want: nil},
		{name: "usd without region", currency: sp("USD"), want: nil},
		{name: "usd with empty region", region: sp(""), currency: sp("USD"), want: nil},
		{name: "country kept", country: sp("CA"), region: sp("ON"), currency: sp("USD"), want: sp("CA")},
		{name: "no currency", region: sp("CA"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCountry(tt.country, tt.region, tt.currency)
			if tt.want == nil {
				if got != nil {
					assert.Equal(t, "", *got)
				}
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
