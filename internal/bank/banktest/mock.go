// Package banktest provides a testify mock of bank.Adapter.
package banktest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bankscrap-dev/bankscrap/internal/bank"
	"github.com/bankscrap-dev/bankscrap/internal/model"
)

// MockAdapter is a bank.Adapter whose behaviour is set with On(...).
type MockAdapter struct {
	mock.Mock
}

// NewMockAdapter creates a mock that asserts its expectations on cleanup.
func NewMockAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAdapter {
	m := &MockAdapter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Factory returns a bank.Factory that always hands out m.
func (m *MockAdapter) Factory() bank.Factory {
	return func(bank.Options) (bank.Adapter, error) {
		return m, nil
	}
}

func (m *MockAdapter) Authenticate(ctx context.Context, creds bank.Credentials) (*bank.Session, error) {
	args := m.Called(ctx, creds)
	s, _ := args.Get(0).(*bank.Session)
	return s, args.Error(1)
}

func (m *MockAdapter) ListAccounts(ctx context.Context, session *bank.Session) ([]model.AccountData, error) {
	args := m.Called(ctx, session)
	data, _ := args.Get(0).([]model.AccountData)
	return data, args.Error(1)
}

func (m *MockAdapter) ListCards(ctx context.Context, session *bank.Session) ([]model.ProductData, error) {
	args := m.Called(ctx, session)
	data, _ := args.Get(0).([]model.ProductData)
	return data, args.Error(1)
}

func (m *MockAdapter) ListLoans(ctx context.Context, session *bank.Session) ([]model.ProductData, error) {
	args := m.Called(ctx, session)
	data, _ := args.Get(0).([]model.ProductData)
	return data, args.Error(1)
}

func (m *MockAdapter) FetchTransactions(ctx context.Context, session *bank.Session, account *model.Account, r bank.DateRange) ([]model.TransactionData, error) {
	args := m.Called(ctx, session, account, r)
	data, _ := args.Get(0).([]model.TransactionData)
	return data, args.Error(1)
}
