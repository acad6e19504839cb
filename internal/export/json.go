package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bankscrap-dev/bankscrap/internal/model"
)

// JSON writes a single JSON array. Amounts are decimal strings so no
// precision is lost.
type JSON struct {
	Indent string
}

type accountJSON struct {
	ID               string `json:"id"`
	IBAN             string `json:"iban"`
	BIC              string `json:"bic,omitempty"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Balance          string `json:"balance"`
	AvailableBalance string `json:"available_balance"`
	Currency         string `json:"currency"`
}

type productJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

type transactionJSON struct {
	ID          string `json:"id"`
	AccountIBAN string `json:"account_iban"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Balance     string `json:"balance"`
	Currency    string `json:"currency"`
}

func (j JSON) Accounts(w io.Writer, accounts []*model.Account) error {
	out := make([]accountJSON, len(accounts))
	for i, a := range accounts {
		out[i] = accountJSON{
			ID:               a.ID,
			IBAN:             a.IBAN,
			BIC:              a.BIC,
			Name:             a.Name,
			Description:      a.Description,
			Balance:          a.Balance.StringFixed(),
			AvailableBalance: a.AvailableBalance.StringFixed(),
			Currency:         a.Currency(),
		}
	}
	return j.encode(w, out)
}

func (j JSON) Cards(w io.Writer, cards []model.Card) error {
	out := make([]productJSON, len(cards))
	for i, c := range cards {
		out[i] = productJSON{ID: c.ID, Name: c.Name, Description: c.Description, Amount: c.Amount.StringFixed(), Currency: c.Currency()}
	}
	return j.encode(w, out)
}

func (j JSON) Loans(w io.Writer, loans []model.Loan) error {
	out := make([]productJSON, len(loans))
	for i, l := range loans {
		out[i] = productJSON{ID: l.ID, Name: l.Name, Description: l.Description, Amount: l.Amount.StringFixed(), Currency: l.Currency()}
	}
	return j.encode(w, out)
}

func (j JSON) Transactions(w io.Writer, txns []model.Transaction) error {
	out := make([]transactionJSON, len(txns))
	for i, t := range txns {
		var iban string
		if t.Account != nil {
			iban = t.Account.IBAN
		}
		out[i] = transactionJSON{
			ID:          t.ID,
			AccountIBAN: iban,
			Date:        t.EffectiveDate.Format(dateFormat),
			Description: t.Description,
			Amount:      t.Amount.StringFixed(),
			Balance:     t.Balance.StringFixed(),
			Currency:    t.Currency(),
		}
	}
	return j.encode(w, out)
}

func (j JSON) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
