package csvbank

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bankscrap-dev/bankscrap/internal/id"
	"github.com/bankscrap-dev/bankscrap/internal/model"
	"github.com/bankscrap-dev/bankscrap/internal/money"
)

// Statement CSV layout: date,description,amount,balance[,id]
const (
	statementDateFormat = "2006-01-02"
	colDate             = 0
	colDesc             = 1
	colAmount           = 2
	colBalance          = 3
	colID               = 4
	minFields           = 4
)

// ParseStatement reads a statement CSV for accountID. Amounts are in
// currencyCode. Rows are returned in file order.
func ParseStatement(r io.Reader, accountID, currencyCode string) ([]model.TransactionData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	seq := id.NewSequencer()
	var txns []model.TransactionData
	for i, rec := range records[1:] {
		txn, err := parseStatementRow(rec, currencyCode)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if txn.ID == "" {
			txn.ID = seq.Next(accountID, txn.EffectiveDate)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseStatementRow(rec []string, currencyCode string) (model.TransactionData, error) {
	if len(rec) < minFields {
		return model.TransactionData{}, fmt.Errorf("expected at least %d fields, got %d", minFields, len(rec))
	}

	date, err := time.Parse(statementDateFormat, rec[colDate])
	if err != nil {
		return model.TransactionData{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}

	amount, err := money.Parse(rec[colAmount], currencyCode)
	if err != nil {
		return model.TransactionData{}, fmt.Errorf("parsing amount: %w", err)
	}

	balance, err := money.Parse(rec[colBalance], currencyCode)
	if err != nil {
		return model.TransactionData{}, fmt.Errorf("parsing balance: %w", err)
	}

	var txnID string
	if len(rec) > colID {
		txnID = strings.TrimSpace(rec[colID])
	}

	return model.TransactionData{
		ID:            txnID,
		Amount:        amount,
		Balance:       balance,
		Description:   strings.TrimSpace(rec[colDesc]),
		EffectiveDate: date,
		RawData: map[string]any{
			"row": rec,
		},
	}, nil
}
