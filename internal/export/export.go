// Package export writes accounts, cards, loans and transactions as CSV or
// JSON without knowing which bank they came from.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bankscrap-dev/bankscrap/internal/model"
)

// Exporter writes one kind of entity list to w.
type Exporter interface {
	Accounts(w io.Writer, accounts []*model.Account) error
	Cards(w io.Writer, cards []model.Card) error
	Loans(w io.Writer, loans []model.Loan) error
	Transactions(w io.Writer, txns []model.Transaction) error
}

// ForFormat returns the exporter for "csv" or "json", case-insensitively.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSV{}, nil
	case "json":
		return JSON{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
