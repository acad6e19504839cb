package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bankscrap-dev/bankscrap/internal/model"
)

const dateFormat = "2006-01-02"

// CSV headers, one per entity kind.
const (
	AccountHeader     = "id,iban,name,description,balance,available_balance,currency"
	ProductHeader     = "id,name,description,amount,currency"
	TransactionHeader = "id,account_iban,date,description,amount,balance,currency"
)

// CSV writes comma separated values with a header row.
type CSV struct{}

func (CSV) Accounts(w io.Writer, accounts []*model.Account) error {
	return writeRows(w, AccountHeader, len(accounts), func(i int) []string {
		return MarshalAccount(accounts[i])
	})
}

func (CSV) Cards(w io.Writer, cards []model.Card) error {
	return writeRows(w, ProductHeader, len(cards), func(i int) []string {
		c := cards[i]
		return marshalProduct(c.ID, c.Name, c.Description, c.Amount.StringFixed(), c.Currency())
	})
}

func (CSV) Loans(w io.Writer, loans []model.Loan) error {
	return writeRows(w, ProductHeader, len(loans), func(i int) []string {
		l := loans[i]
		return marshalProduct(l.ID, l.Name, l.Description, l.Amount.StringFixed(), l.Currency())
	})
}

func (CSV) Transactions(w io.Writer, txns []model.Transaction) error {
	return writeRows(w, TransactionHeader, len(txns), func(i int) []string {
		return MarshalTransaction(txns[i])
	})
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a *model.Account) []string {
	return []string{
		a.ID,
		a.IBAN,
		a.Name,
		a.Description,
		a.Balance.StringFixed(),
		a.AvailableBalance.StringFixed(),
		a.Currency(),
	}
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	var iban string
	if t.Account != nil {
		iban = t.Account.IBAN
	}
	return []string{
		t.ID,
		iban,
		t.EffectiveDate.Format(dateFormat),
		t.Description,
		t.Amount.StringFixed(),
		t.Balance.StringFixed(),
		t.Currency(),
	}
}

func marshalProduct(id, name, desc, amount, currency string) []string {
	return []string{id, name, desc, amount, currency}
}

func writeRows(w io.Writer, header string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
