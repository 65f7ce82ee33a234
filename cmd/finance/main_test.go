package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Veraticus/finance-control/internal/common"
	"github.com/Veraticus/finance-control/internal/model"
	"github.com/Veraticus/finance-control/internal/report"
	"github.com/Veraticus/finance-control/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv runs commands against a database and settings file in a temp dir.
type testEnv struct {
	t   *testing.T
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dir: t.TempDir()}
}

func (e *testEnv) dbPath() string {
	return filepath.Join(e.dir, "finance.db")
}

// runWithInput executes the root command with stdin and returns stdout.
func (e *testEnv) runWithInput(stdin string, args ...string) (string, error) {
	e.t.Helper()
	root := newRootCmd()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{
		"--config", filepath.Join(e.dir, "settings.json"),
		"--db", e.dbPath(),
		"--env-file", filepath.Join(e.dir, "missing.env"),
		"--log-level", "error",
	}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	return e.runWithInput("", args...)
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "finance %s", strings.Join(args, " "))
	return out
}

func (e *testEnv) mustID(args ...string) int64 {
	e.t.Helper()
	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(e.t, json.Unmarshal([]byte(e.mustRun(append(args, "--json")...)), &resp))
	require.Positive(e.t, resp.ID)
	return resp.ID
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	want := map[string][]string{
		"categories":   {"list", "add", "update", "delete", "show"},
		"transactions": {"list", "add", "update", "delete", "show"},
		"summary":      {"categories", "months"},
		"report":       {"monthly", "annual", "period"},
		"backup":       {"create", "list", "restore", "delete"},
		"settings":     {"show", "set", "reset"},
		"balance":      nil,
		"import":       nil,
		"dashboard":    nil,
		"version":      nil,
	}

	for name, subs := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, cmd.Name())

		var got []string
		for _, sub := range cmd.Commands() {
			got = append(got, sub.Name())
		}
		assert.ElementsMatch(t, subs, got, name)
	}

	for _, flag := range []string{"config", "db", "json", "yes", "log-level", "log-format", "env-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestCategoriesCommands(t *testing.T) {
	env := newTestEnv(t)

	var categories []model.Category
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("categories", "list", "--json")), &categories))
	assert.Len(t, categories, 13)

	out := env.mustRun("categories", "list", "--type", "income")
	assert.Contains(t, out, "Salary")
	assert.NotContains(t, out, "Groceries")

	coffee := env.mustID("categories", "add", "Coffee", "--color", "#6F4E37")
	assert.Equal(t, coffee, env.mustID("categories", "add", "Coffee", "--color", "#6F4E37"))

	env.mustRun("categories", "update", id(coffee), "--name", "Cafe")
	out = env.mustRun("categories", "show", id(coffee))
	assert.Contains(t, out, "Cafe")
	assert.Contains(t, out, "#6F4E37")
	assert.Contains(t, out, "No transactions in this category.")

	_, err := env.run("categories", "update", id(coffee))
	assert.Error(t, err)

	_, err = env.run("categories", "add", "Bad", "--color", "red")
	assert.ErrorIs(t, err, storage.ErrInvalidColor)

	_, err = env.run("categories", "list", "--type", "transfer")
	assert.Error(t, err)

	out, err = env.runWithInput("n\n", "categories", "delete", id(coffee))
	require.NoError(t, err)
	assert.Contains(t, out, "Canceled.")

	out = env.mustRun("categories", "delete", id(coffee), "--yes")
	assert.Contains(t, out, `Deleted category "Cafe"`)

	_, err = env.run("categories", "show", id(coffee))
	assert.True(t, common.IsNotFound(err))
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestTransactionsCommands(t *testing.T) {
	env := newTestEnv(t)

	food := env.mustID("categories", "add", "Food", "--color", "#FF0000")
	lunch := env.mustID("transactions", "add", "42.50", "--category", id(food), "--date", "2024-01-15", "-m", "lunch")
	pay := env.mustID("transactions", "add", "1000", "--type", "income", "--date", "2024-01-01")

	var txns []model.Transaction
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("transactions", "list", "--json")), &txns))
	require.Len(t, txns, 2)
	assert.Equal(t, lunch, txns[0].ID, "newest first")
	assert.Equal(t, "Food", txns[0].CategoryName)

	out := env.mustRun("transactions", "list", "--type", "income")
	assert.Contains(t, out, "+1000.00")
	assert.NotContains(t, out, "lunch")

	out = env.mustRun("transactions", "list", "--from", "2024-01-10", "--to", "2024-01-31", "--category", id(food))
	assert.Contains(t, out, "lunch")
	assert.Contains(t, out, "1 transaction(s)")

	_, err := env.run("transactions", "list", "--from", "2024-02-01", "--to", "2024-01-01")
	assert.ErrorIs(t, err, storage.ErrInvalidDateRange)

	env.mustRun("transactions", "update", id(lunch), "--amount", "50", "--no-category")
	var updated model.Transaction
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("transactions", "show", id(lunch), "--json")), &updated))
	assert.True(t, updated.Amount.Equal(mustDecimal(t, "50")))
	assert.Nil(t, updated.CategoryID)
	assert.Equal(t, "lunch", updated.Description)
	assert.Equal(t, "2024-01-15", updated.DateString())

	_, err = env.run("transactions", "update", id(lunch), "--date", "2024-13-01")
	assert.ErrorIs(t, err, storage.ErrInvalidDate)

	_, err = env.run("transactions", "add", "--", "-5")
	assert.ErrorIs(t, err, storage.ErrInvalidAmount)

	_, err = env.run("transactions", "add", "abc")
	assert.Error(t, err)

	env.mustRun("transactions", "delete", id(pay), "-y")
	_, err = env.run("transactions", "show", id(pay))
	assert.True(t, common.IsNotFound(err))
}

func TestBalanceAndSummaryCommands(t *testing.T) {
	env := newTestEnv(t)

	food := env.mustID("categories", "add", "Food", "--color", "#FF0000")
	env.mustRun("transactions", "add", "1000", "--type", "income", "--date", "2024-01-05")
	env.mustRun("transactions", "add", "300", "--category", id(food), "--date", "2024-01-20")
	env.mustRun("transactions", "add", "200", "--date", "2024-02-10")

	var balance map[string]string
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("balance", "--json")), &balance))
	assert.Equal(t, "500.00", balance["balance"])

	out := env.mustRun("summary", "categories", "--from", "2024-01-01", "--to", "2024-12-31")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, model.UncategorizedName)
	assert.Contains(t, out, "300.00 (60.0%)")

	var months []model.MonthTotal
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("summary", "months", "--from", "2024-01-01", "--to", "2024-12-31", "--json")), &months))
	require.Len(t, months, 2)
	assert.Equal(t, "2024-01", months[0].Month)
	assert.True(t, months[1].Balance.Equal(mustDecimal(t, "-200")))

	env.mustRun("settings", "set", "analytics.default_period", "all")
	out = env.mustRun("summary", "categories")
	assert.Contains(t, out, "all time")
	assert.Contains(t, out, "Food")
}

func TestReportCommands(t *testing.T) {
	env := newTestEnv(t)

	food := env.mustID("categories", "add", "Food", "--color", "#FF0000")
	env.mustRun("transactions", "add", "300", "--category", id(food), "--date", "2024-01-20")

	out := env.mustRun("report", "monthly", "--year", "2024", "--month", "1")
	assert.Contains(t, out, "Financial report for January 2024")
	assert.Contains(t, out, "Food: 300.00 (100.0%)")

	out = env.mustRun("report", "annual", "--year", "2024")
	assert.Contains(t, out, "MONTHLY BREAKDOWN")

	reports := filepath.Join(env.dir, "reports")
	out = env.mustRun("report", "period", "--from", "2024-01-01", "--to", "2024-01-31", "--save", "--dir", reports, "-o", "jan.txt")
	assert.Contains(t, out, "Report saved to")
	saved, err := os.ReadFile(filepath.Join(reports, "jan.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "Financial report for the period 2024-01-01 to 2024-01-31")

	_, err = env.run("report", "monthly", "--month", "13")
	assert.ErrorIs(t, err, report.ErrInvalidMonth)

	out = env.mustRun("report", "period", "--from", "2024-1-1", "--to", "2024-1-31")
	assert.Contains(t, out, "Financial report for the period 2024-01-01 to 2024-01-31")
	_, err = env.run("report", "period", "--from", "2024-02-01", "--to", "2024-01-01")
	assert.Error(t, err)
}

func TestBackupCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("transactions", "add", "10", "--date", "2024-01-01")

	out := env.mustRun("backup", "create", "before-cleanup")
	assert.Contains(t, out, `Created backup "before-cleanup" (1 transactions, 13 categories)`)

	env.mustRun("transactions", "add", "20", "--date", "2024-01-02")

	out = env.mustRun("backup", "list")
	assert.Contains(t, out, "before-cleanup")

	env.mustRun("backup", "restore", "before-cleanup", "--yes")

	var txns []model.Transaction
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("transactions", "list", "--json")), &txns))
	assert.Len(t, txns, 1)

	_, err := env.run("backup", "restore", "missing", "--yes")
	assert.ErrorIs(t, err, storage.ErrBackupNotFound)

	env.mustRun("backup", "delete", "before-cleanup")
	out = env.mustRun("backup", "list")
	assert.Contains(t, out, "No backups")
}

func TestSettingsCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("settings", "show")
	assert.Contains(t, out, "interface.theme = Fusion")

	env.mustRun("settings", "set", "interface.theme", "dark")
	out = env.mustRun("settings", "show")
	assert.Contains(t, out, "interface.theme = dark")
	assert.FileExists(t, filepath.Join(env.dir, "settings.json"))

	_, err := env.run("settings", "set", "theme", "dark")
	assert.Error(t, err)

	env.mustRun("settings", "reset", "--yes")
	out = env.mustRun("settings", "show")
	assert.Contains(t, out, "interface.theme = Fusion")
}

const importOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>2500.00
<FITID>2024013101
<NAME>ACH CREDIT ACME PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportCommand(t *testing.T) {
	env := newTestEnv(t)

	first := filepath.Join(env.dir, "jan.qfx")
	second := filepath.Join(env.dir, "jan-copy.qfx")
	require.NoError(t, os.WriteFile(first, []byte(importOFX), 0600))
	require.NoError(t, os.WriteFile(second, []byte(importOFX), 0600))

	out := env.mustRun("import", "--dry-run", first)
	assert.Contains(t, out, "Dry run: 2 transaction(s)")
	assert.Contains(t, out, "ACME PAYROLL")

	out = env.mustRun("import", filepath.Join(env.dir, "*.qfx"))
	assert.Contains(t, out, "Imported 2 transaction(s) from 2 file(s)")

	var balance map[string]string
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("balance", "--json")), &balance))
	assert.Equal(t, "2474.50", balance["balance"])

	_, err := env.run("import", filepath.Join(env.dir, "none-*.ofx"))
	assert.Error(t, err)

	_, err = env.run("import", "--category", "999", first)
	assert.True(t, common.IsNotFound(err))
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("version")
	assert.Equal(t, "finance dev\n", out)
}

func TestConfirmReadsStdin(t *testing.T) {
	a := &app{}
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("yes\n"))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	ok, err := a.confirm(cmd, "Proceed?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Proceed? [y/N]")

	a.assumeYes = true
	ok, err = a.confirm(cmd, "Proceed?")
	require.NoError(t, err)
	assert.True(t, ok)
}
