package export

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankscrap-dev/bankscrap/internal/model"
	"github.com/bankscrap-dev/bankscrap/internal/money"
)

func fixtures(t *testing.T) ([]*model.Account, []model.Transaction) {
	t.Helper()
	acct, err := model.NewAccount(model.AccountData{
		ID:               "acc-1",
		Name:             "Checking",
		Description:      "Main, checking",
		Balance:          money.MustParse("85", "EUR"),
		AvailableBalance: money.MustParse("80.5", "EUR"),
		IBAN:             "ES01",
	}, nil)
	require.NoError(t, err)

	txn, err := model.NewTransaction(model.TransactionData{
		ID:            "t1",
		Amount:        money.MustParse("-20", "EUR"),
		Balance:       money.MustParse("80", "EUR"),
		Description:   "GROCERY",
		EffectiveDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}, acct)
	require.NoError(t, err)

	return []*model.Account{acct}, []model.Transaction{txn}
}

func TestForFormat(t *testing.T) {
	e, err := ForFormat("CSV")
	require.NoError(t, err)
	assert.IsType(t, CSV{}, e)

	e, err = ForFormat("json")
	require.NoError(t, err)
	assert.IsType(t, JSON{}, e)

	_, err = ForFormat("xml")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestCSV_Accounts(t *testing.T) {
	accounts, _ := fixtures(t)
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Accounts(&buf, accounts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, AccountHeader, lines[0])
	assert.Equal(t, `acc-1,ES01,Checking,"Main, checking",85.00,80.50,EUR`, lines[1])
}

func TestCSV_Transactions(t *testing.T) {
	_, txns := fixtures(t)
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Transactions(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, TransactionHeader, lines[0])
	assert.Equal(t, "t1,ES01,2023-01-01,GROCERY,-20.00,80.00,EUR", lines[1])
}

func TestCSV_CardsLoans(t *testing.T) {
	card, err := model.NewCard(model.ProductData{ID: "c1", Name: "Visa", Amount: money.MustParse("-30", "USD")})
	require.NoError(t, err)
	loan, err := model.NewLoan(model.ProductData{ID: "l1", Name: "Car", Amount: money.MustParse("-900.1", "EUR")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, CSV{}.Cards(&buf, []model.Card{card}))
	assert.Equal(t, ProductHeader+"\nc1,Visa,,-30.00,USD\n", buf.String())

	buf.Reset()
	require.NoError(t, CSV{}.Loans(&buf, []model.Loan{loan}))
	assert.Equal(t, ProductHeader+"\nl1,Car,,-900.10,EUR\n", buf.String())
}

func TestCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Transactions(&buf, nil))
	assert.Equal(t, TransactionHeader+"\n", buf.String())
}

func TestJSON_Transactions(t *testing.T) {
	_, txns := fixtures(t)
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Transactions(&buf, txns))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "-20.00", got[0]["amount"])
	assert.Equal(t, "2023-01-01", got[0]["date"])
	assert.Equal(t, "ES01", got[0]["account_iban"])
	assert.Equal(t, "EUR", got[0]["currency"])
}

func TestJSON_Accounts(t *testing.T) {
	accounts, _ := fixtures(t)
	var buf bytes.Buffer
	require.NoError(t, JSON{Indent: "  "}.Accounts(&buf, accounts))

	assert.Contains(t, buf.String(), `"available_balance": "80.50"`)
	assert.NotContains(t, buf.String(), "bic")
}

func TestJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Cards(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	_, txns := fixtures(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	err := WriteFile(path, func(w io.Writer) error { return CSV{}.Transactions(w, txns) })
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), TransactionHeader))

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}
