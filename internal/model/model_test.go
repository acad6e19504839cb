package model

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankscrap-dev/bankscrap/internal/money"
)

type countingSource struct {
	calls atomic.Int32
	txns  []TransactionData
	err   error
}

func (s *countingSource) TransactionsFor(_ context.Context, account *Account, start, end time.Time) ([]Transaction, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	var out []Transaction
	for _, d := range s.txns {
		if !start.IsZero() && d.EffectiveDate.Before(start) {
			continue
		}
		if !end.IsZero() && d.EffectiveDate.After(end) {
			continue
		}
		txn, err := NewTransaction(d, account)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, nil
}

func validAccountData() AccountData {
	return AccountData{
		ID:               "acc-1",
		Name:             "Checking",
		Description:      "Main checking",
		Balance:          money.MustParse("100.00", "EUR"),
		AvailableBalance: money.MustParse("100.00", "EUR"),
		IBAN:             "ES0000000000000000000001",
	}
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewAccount(t *testing.T) {
	acct, err := NewAccount(validAccountData(), nil)
	require.NoError(t, err)
	assert.Equal(t, "EUR", acct.Currency())
	assert.Equal(t, "Main checking", acct.String())
}

func TestNewAccount_NoCurrencyCode(t *testing.T) {
	data := validAccountData()
	data.Balance = money.MustParse("1", "XXX")
	data.AvailableBalance = money.MustParse("1", "XXX")

	acct, err := NewAccount(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "XXX", acct.Currency())
}

func TestNewAccount_TypeMismatch(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*AccountData)
	}{
		{"balance", func(d *AccountData) { d.Balance = money.Money{} }},
		{"available_balance", func(d *AccountData) { d.AvailableBalance = money.Money{} }},
	}
	for _, tt := range tests {
		data := validAccountData()
		tt.mutate(&data)

		acct, err := NewAccount(data, nil)
		assert.Nil(t, acct)
		require.ErrorIs(t, err, ErrTypeMismatch)

		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, tt.field, tm.Field)
	}
}

func TestNewTransaction_TypeMismatch(t *testing.T) {
	_, err := NewTransaction(TransactionData{Balance: money.MustParse("1", "EUR")}, nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewTransaction(TransactionData{Amount: money.MustParse("1", "EUR")}, nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNewCardLoan_TypeMismatch(t *testing.T) {
	_, err := NewCard(ProductData{ID: "c1"})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewLoan(ProductData{ID: "l1"})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	card, err := NewCard(ProductData{ID: "c1", Name: "Visa", Amount: money.MustParse("-30", "EUR")})
	require.NoError(t, err)
	assert.Equal(t, "EUR", card.Currency())
}

func TestTransactions_FetchedOnce(t *testing.T) {
	src := &countingSource{txns: []TransactionData{
		{ID: "t1", Amount: money.MustParse("-20.00", "EUR"), Balance: money.MustParse("80.00", "EUR"), EffectiveDate: date("2023-01-01")},
		{ID: "t2", Amount: money.MustParse("5.00", "EUR"), Balance: money.MustParse("85.00", "EUR"), EffectiveDate: date("2023-01-02")},
	}}
	acct, err := NewAccount(validAccountData(), src)
	require.NoError(t, err)

	first, err := acct.Transactions(context.Background())
	require.NoError(t, err)
	second, err := acct.Transactions(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Same(t, acct, first[0].Account)
}

func TestTransactions_ConcurrentSingleFetch(t *testing.T) {
	src := &countingSource{}
	acct, err := NewAccount(validAccountData(), src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = acct.Transactions(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
}

type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) TransactionsFor(_ context.Context, _ *Account, _, _ time.Time) ([]Transaction, error) {
	close(s.started)
	<-s.release
	return []Transaction{}, nil
}

func TestTransactions_WaiterCancels(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	acct, err := NewAccount(validAccountData(), src)
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := acct.Transactions(context.Background())
		firstDone <- err
	}()
	<-src.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = acct.Transactions(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(src.release)
	require.NoError(t, <-firstDone)

	txns, err := acct.Transactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestTransactions_ErrorNotCached(t *testing.T) {
	boom := errors.New("backend down")
	src := &countingSource{err: boom}
	acct, err := NewAccount(validAccountData(), src)
	require.NoError(t, err)

	_, err = acct.Transactions(context.Background())
	assert.ErrorIs(t, err, boom)

	src.err = nil
	_, err = acct.Transactions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestFetchTransactions_DoesNotTouchCache(t *testing.T) {
	src := &countingSource{txns: []TransactionData{
		{ID: "t1", Amount: money.MustParse("-20.00", "EUR"), Balance: money.MustParse("80.00", "EUR"), EffectiveDate: date("2023-01-01")},
		{ID: "t2", Amount: money.MustParse("5.00", "EUR"), Balance: money.MustParse("85.00", "EUR"), EffectiveDate: date("2023-01-02")},
	}}
	acct, err := NewAccount(validAccountData(), src)
	require.NoError(t, err)

	cached, err := acct.Transactions(context.Background())
	require.NoError(t, err)

	narrow, err := acct.FetchTransactions(context.Background(), date("2023-01-02"), date("2023-01-02"))
	require.NoError(t, err)
	require.Len(t, narrow, 1)
	assert.Equal(t, "t2", narrow[0].ID)

	again, err := acct.Transactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, again)
	assert.Len(t, again, 2)
}

func TestNoSource(t *testing.T) {
	acct, err := NewAccount(validAccountData(), nil)
	require.NoError(t, err)

	_, err = acct.Transactions(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
	_, err = acct.FetchTransactions(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNoSource)
}
