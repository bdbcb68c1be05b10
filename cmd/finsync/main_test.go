package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/finsync/internal/config"
	"github.com/dvloznov/finsync/internal/tablewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlaid serves one institution with one account and one transaction.
// Requests for failToken get a 400.
func fakePlaid(t *testing.T, failToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AccessToken string `json:"access_token"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		if failToken != "" && body.AccessToken == failToken {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error_type":"ITEM_ERROR","error_code":"ITEM_LOGIN_REQUIRED","error_message":"login required"}`)
			return
		}

		switch r.URL.Path {
		case "/categories/get":
			_, _ = io.WriteString(w, `{"categories":[{"category_id":"10000000","group":"special","hierarchy":["Bank Fees"]}]}`)
		case "/accounts/get":
			_, _ = io.WriteString(w, `{"item":{"institution_id":"ins_3"},"accounts":[{"account_id":"acc1","balances":{"current":12.5},"name":"Checking","type":"depository","subtype":"checking"}]}`)
		case "/transactions/get":
			_, _ = io.WriteString(w, `{"total_transactions":1,"transactions":[{"transaction_id":"tx1","account_id":"acc1","name":"Coffee","amount":3.5,"iso_currency_code":"USD","date":"2024-03-03","pending":false}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setEnv points the CLI at srv from an empty working directory.
func setEnv(t *testing.T, srv *httptest.Server) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("FINSYNC_PLAID__CLIENT_ID", "cid")
	t.Setenv("FINSYNC_PLAID__SECRET", "secret")
	t.Setenv("FINSYNC_PLAID__BASE_URL", srv.URL)
	t.Setenv("FINSYNC_PLAID__INSTITUTION_TOKENS__CHASE", "tok-chase")
	t.Setenv("FINSYNC_LOG__FORMAT", "json")
}

func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCategoriesToStdout(t *testing.T) {
	setEnv(t, fakePlaid(t, ""))

	stdout, stderr, err := execute("categories", "--stdout")
	require.NoError(t, err)

	assert.Equal(t, "-- categories\n"+
		"INSERT INTO `categories` (`id`, `group`, `category`, `category1`, `category2`) VALUES\n"+
		"(\"10000000\", \"special\", \"Bank Fees\", NULL, NULL)\n"+
		"ON DUPLICATE KEY UPDATE `group`=VALUES(`group`), `category`=VALUES(`category`), `category1`=VALUES(`category1`), `category2`=VALUES(`category2`);\n\n", stdout)
	assert.Contains(t, stderr, `"run_id"`)
	assert.Contains(t, stderr, `"command":"categories"`)
}

func TestSyncToDirectory(t *testing.T) {
	setEnv(t, fakePlaid(t, ""))

	_, _, err := execute("sync", "--output-dir", "out", "--history-months", "1")
	require.NoError(t, err)

	for _, table := range []string{"categories", "institutions", "accounts", "transactions"} {
		data, err := os.ReadFile(filepath.Join("out", tablewriter.FileName(table)))
		require.NoError(t, err, table)
		assert.Contains(t, string(data), "INSERT INTO `"+table+"`")
	}

	tx, err := os.ReadFile(filepath.Join("out", "transactions.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(tx), `("tx1", "acc1", "Coffee", -3.5, "2024-03-03", NULL, "USD", NULL, NULL, NULL, NULL)`)

	inst, err := os.ReadFile(filepath.Join("out", "institutions.sql"))
	require.NoError(t, err)
	// labels coming from env vars are lowercased
	assert.Contains(t, string(inst), `("ins_3", "chase")`)
}

func TestSyncFailureExitsWithError(t *testing.T) {
	setEnv(t, fakePlaid(t, "tok-chase"))

	_, _, err := execute("sync", "--output-dir", "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ITEM_LOGIN_REQUIRED")

	// categories still went out, the account tables did not
	_, statErr := os.Stat(filepath.Join("out", "categories.sql"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join("out", "accounts.sql"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInvalidConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FINSYNC_PLAID__CLIENT_ID", "")

	_, _, err := execute("categories", "--concurrency", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plaid.client_id is required")
	assert.Contains(t, err.Error(), "sync.concurrency")
}

func TestUnknownArgs(t *testing.T) {
	setEnv(t, fakePlaid(t, ""))

	_, _, err := execute("accounts", "extra")
	assert.Error(t, err)
}

func TestOpenWriter(t *testing.T) {
	ctx := context.Background()

	w, closeWriter, err := openWriter(ctx, config.OutputConfig{Stdout: true, GCSBucket: "b", Dir: "d"}, &bytes.Buffer{})
	require.NoError(t, err)
	defer closeWriter()
	assert.IsType(t, &tablewriter.StreamWriter{}, w)

	w, closeWriter, err = openWriter(ctx, config.OutputConfig{Dir: "d"}, &bytes.Buffer{})
	require.NoError(t, err)
	defer closeWriter()
	assert.IsType(t, &tablewriter.DirWriter{}, w)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
