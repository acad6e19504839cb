package model

import "github.com/bankscrap-dev/bankscrap/internal/money"

// ProductData is a card or loan record as reported by an adapter.
type ProductData struct {
	ID          string
	Name        string
	Description string
	Amount      money.Money
	RawData     map[string]any
}

// Card is a credit or debit card. Amount is the card's current balance.
type Card struct {
	ID          string
	Name        string
	Description string
	Amount      money.Money
	RawData     map[string]any
}

// Loan is a loan held at the bank. Amount is the outstanding amount.
type Loan struct {
	ID          string
	Name        string
	Description string
	Amount      money.Money
	RawData     map[string]any
}

func NewCard(data ProductData) (Card, error) {
	if !data.Amount.Valid() {
		return Card{}, &TypeMismatchError{Entity: "card", Field: "amount"}
	}
	return Card(data), nil
}

func NewLoan(data ProductData) (Loan, error) {
	if !data.Amount.Valid() {
		return Loan{}, &TypeMismatchError{Entity: "loan", Field: "amount"}
	}
	return Loan(data), nil
}

func (c Card) Currency() string { return c.Amount.Currency() }
func (l Loan) Currency() string { return l.Amount.Currency() }
