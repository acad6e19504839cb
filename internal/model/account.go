// Package model holds the financial entities shared by every bank adapter.
package model

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bankscrap-dev/bankscrap/internal/money"
)

// TransactionSource fetches the transactions of an account. A zero start and
// end ask for the backend's default window, usually all available history.
type TransactionSource interface {
	TransactionsFor(ctx context.Context, account *Account, start, end time.Time) ([]Transaction, error)
}

// AccountData is an account record as reported by an adapter.
type AccountData struct {
	ID               string
	Name             string
	Description      string
	Balance          money.Money
	AvailableBalance money.Money
	IBAN             string
	BIC              string
	RawData          map[string]any
}

// Account is a bank account owned by one client session.
type Account struct {
	ID               string
	Name             string
	Description      string
	Balance          money.Money
	AvailableBalance money.Money
	IBAN             string
	BIC              string
	RawData          map[string]any

	source TransactionSource // not owned

	group        singleflight.Group
	mu           sync.Mutex
	loaded       bool
	transactions []Transaction
}

// NewAccount validates data and binds the account to source.
func NewAccount(data AccountData, source TransactionSource) (*Account, error) {
	if !data.Balance.Valid() {
		return nil, &TypeMismatchError{Entity: "account", Field: "balance"}
	}
	if !data.AvailableBalance.Valid() {
		return nil, &TypeMismatchError{Entity: "account", Field: "available_balance"}
	}
	return &Account{
		ID:               data.ID,
		Name:             data.Name,
		Description:      data.Description,
		Balance:          data.Balance,
		AvailableBalance: data.AvailableBalance,
		IBAN:             data.IBAN,
		BIC:              data.BIC,
		RawData:          data.RawData,
		source:           source,
	}, nil
}

// Currency is the currency of the account balance.
func (a *Account) Currency() string {
	return a.Balance.Currency()
}

// Transactions returns the account's default transaction list, fetching it on
// the first call and caching it for the lifetime of the account. Concurrent
// callers share the same fetch; a caller whose ctx ends stops waiting.
// Failed fetches are not cached.
func (a *Account) Transactions(ctx context.Context) ([]Transaction, error) {
	if txns, ok := a.cached(); ok {
		return txns, nil
	}
	if a.source == nil {
		return nil, ErrNoSource
	}

	ch := a.group.DoChan("transactions", func() (any, error) {
		if txns, ok := a.cached(); ok {
			return txns, nil
		}
		txns, err := a.source.TransactionsFor(ctx, a, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.transactions = txns
		a.loaded = true
		a.mu.Unlock()
		return txns, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Transaction), nil
	}
}

func (a *Account) cached() ([]Transaction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transactions, a.loaded
}

// FetchTransactions asks the source for transactions between start and end.
// The result is never cached and the default list is left untouched.
func (a *Account) FetchTransactions(ctx context.Context, start, end time.Time) ([]Transaction, error) {
	if a.source == nil {
		return nil, ErrNoSource
	}
	return a.source.TransactionsFor(ctx, a, start, end)
}

func (a *Account) String() string {
	if a.Description != "" {
		return a.Description
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.IBAN)
}
