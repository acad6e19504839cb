// Package bank defines the contract every bank adapter implements and the
// error kinds adapters report.
package bank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bankscrap-dev/bankscrap/internal/model"
)

// Adapter talks to one bank backend. Every method may do network I/O and
// reports failures wrapping ErrAuthentication, ErrRateLimited, ErrUnavailable
// or ErrParse.
type Adapter interface {
	// Authenticate logs in and establishes a session.
	Authenticate(ctx context.Context, creds Credentials) (*Session, error)
	ListAccounts(ctx context.Context, session *Session) ([]model.AccountData, error)
	ListCards(ctx context.Context, session *Session) ([]model.ProductData, error)
	ListLoans(ctx context.Context, session *Session) ([]model.ProductData, error)
	// FetchTransactions returns the account's transactions inside r, ordered
	// by effective date. A zero range means the adapter's default window.
	FetchTransactions(ctx context.Context, session *Session, account *model.Account, r DateRange) ([]model.TransactionData, error)
}

// Options are handed to a Factory when a client is created.
type Options struct {
	Logger logrus.FieldLogger
	Debug  bool
}

// Factory instantiates an adapter.
type Factory func(opts Options) (Adapter, error)

// Session is the authenticated state of an adapter. State is opaque to
// everything but the adapter that created it.
type Session struct {
	ID        string
	Bank      string
	ExpiresAt time.Time
	State     any
}

// Credentials are the key/value pairs an adapter needs to log in.
type Credentials map[string]string

// Require returns an error naming every key that is missing or empty.
func (c Credentials) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing credentials %v", ErrAuthentication, missing)
}
