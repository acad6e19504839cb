package model

import (
	"time"

	"github.com/bankscrap-dev/bankscrap/internal/money"
)

// TransactionData is a transaction record as reported by an adapter.
type TransactionData struct {
	ID            string
	Amount        money.Money // negative = outgoing
	Balance       money.Money // running balance after the transaction
	Description   string
	EffectiveDate time.Time
	RawData       map[string]any
}

// Transaction is one movement on an account.
type Transaction struct {
	ID            string
	Account       *Account
	Amount        money.Money
	Balance       money.Money
	Description   string
	EffectiveDate time.Time
	RawData       map[string]any
}

// NewTransaction validates data and attaches it to account.
func NewTransaction(data TransactionData, account *Account) (Transaction, error) {
	if !data.Amount.Valid() {
		return Transaction{}, &TypeMismatchError{Entity: "transaction", Field: "amount"}
	}
	if !data.Balance.Valid() {
		return Transaction{}, &TypeMismatchError{Entity: "transaction", Field: "balance"}
	}
	return Transaction{
		ID:            data.ID,
		Account:       account,
		Amount:        data.Amount,
		Balance:       data.Balance,
		Description:   data.Description,
		EffectiveDate: data.EffectiveDate,
		RawData:       data.RawData,
	}, nil
}

// Currency is the currency of the transaction amount.
func (t Transaction) Currency() string {
	return t.Amount.Currency()
}
