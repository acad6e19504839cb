// Package client wraps one authenticated adapter session and exposes its
// accounts, cards, loans and transactions with fetch-once caching.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/bankscrap-dev/bankscrap/internal/bank"
	"github.com/bankscrap-dev/bankscrap/internal/logging"
	"github.com/bankscrap-dev/bankscrap/internal/model"
)

// DefaultLookbackYears is the window DefaultRange covers unless WithLookback
// overrides it.
const DefaultLookbackYears = 2

var ErrNotReady = errors.New("client is not ready")

// State is the lifecycle state of a Client.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client and passed to the adapter.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// WithDebug asks the adapter for verbose diagnostics.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithLookback sets how many years back DefaultRange starts.
func WithLookback(years int) Option {
	return func(c *Client) { c.lookbackYears = years }
}

// WithClock replaces time.Now for DefaultRange.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

type cacheSlot[T any] struct {
	loaded bool
	value  T
}

// Client is a session with one bank. It is safe for concurrent use; each
// cached list is fetched by at most one backend call at a time.
type Client struct {
	bankName      string
	adapter       bank.Adapter
	session       *bank.Session
	log           logrus.FieldLogger
	debug         bool
	lookbackYears int
	now           func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	state    State
	accounts cacheSlot[[]*model.Account]
	cards    cacheSlot[[]model.Card]
	loans    cacheSlot[[]model.Loan]
}

// New instantiates the adapter built by factory and authenticates with
// creds. It returns a ready client or the error that stopped it; there is no
// half-authenticated client.
func New(ctx context.Context, bankName string, factory bank.Factory, creds bank.Credentials, opts ...Option) (*Client, error) {
	c := &Client{
		bankName:      bankName,
		lookbackYears: DefaultLookbackYears,
		now:           time.Now,
		state:         StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	c.log = c.log.WithField("bank", bankName)

	adapter, err := factory(bank.Options{Logger: c.log, Debug: c.debug})
	if err != nil {
		return nil, fmt.Errorf("creating %s adapter: %w", bankName, err)
	}
	c.adapter = adapter

	c.setState(StateAuthenticating)
	done := logging.Track(c.log, "Client.Authenticate")
	session, err := adapter.Authenticate(ctx, creds)
	done(err)
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}
	c.session = session
	c.setState(StateReady)

	return c, nil
}

// Bank returns the bank name the client was created for.
func (c *Client) Bank() string { return c.bankName }

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the adapter session.
func (c *Client) Session() *bank.Session { return c.session }

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Accounts returns the bank's accounts, fetched on first use.
func (c *Client) Accounts(ctx context.Context) ([]*model.Account, error) {
	return load(ctx, c, "accounts", &c.accounts, func(ctx context.Context) ([]*model.Account, error) {
		data, err := c.adapter.ListAccounts(ctx, c.session)
		if err != nil {
			return nil, err
		}
		accounts := make([]*model.Account, 0, len(data))
		for i, d := range data {
			acct, err := model.NewAccount(d, c)
			if err != nil {
				return nil, fmt.Errorf("account %d: %w", i, err)
			}
			accounts = append(accounts, acct)
		}
		return accounts, nil
	})
}

// Cards returns the bank's cards, fetched on first use.
func (c *Client) Cards(ctx context.Context) ([]model.Card, error) {
	return load(ctx, c, "cards", &c.cards, func(ctx context.Context) ([]model.Card, error) {
		data, err := c.adapter.ListCards(ctx, c.session)
		if err != nil {
			return nil, err
		}
		cards := make([]model.Card, 0, len(data))
		for i, d := range data {
			card, err := model.NewCard(d)
			if err != nil {
				return nil, fmt.Errorf("card %d: %w", i, err)
			}
			cards = append(cards, card)
		}
		return cards, nil
	})
}

// Loans returns the bank's loans, fetched on first use.
func (c *Client) Loans(ctx context.Context) ([]model.Loan, error) {
	return load(ctx, c, "loans", &c.loans, func(ctx context.Context) ([]model.Loan, error) {
		data, err := c.adapter.ListLoans(ctx, c.session)
		if err != nil {
			return nil, err
		}
		loans := make([]model.Loan, 0, len(data))
		for i, d := range data {
			loan, err := model.NewLoan(d)
			if err != nil {
				return nil, fmt.Errorf("loan %d: %w", i, err)
			}
			loans = append(loans, loan)
		}
		return loans, nil
	})
}

// AccountWithIBAN returns the first account whose IBAN equals iban exactly.
func (c *Client) AccountWithIBAN(ctx context.Context, iban string) (*model.Account, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.IBAN == iban {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: no account with IBAN %q", bank.ErrNotFound, iban)
}

// FetchTransactionsFor asks the adapter for account's transactions between
// start and end, inclusive. Zero dates leave that end open to the adapter's
// default. The result is not cached and the account's own transaction cache
// is not touched. A start after end fails with bank.ErrInvalidDateRange
// without reaching the adapter.
func (c *Client) FetchTransactionsFor(ctx context.Context, account *model.Account, start, end time.Time) ([]model.Transaction, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: no account given", bank.ErrNotFound)
	}
	r := bank.DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	log := c.log.WithField("account", account.ID)
	if !r.IsZero() {
		log = log.WithFields(logrus.Fields{
			"from": start.Format(time.DateOnly),
			"to":   end.Format(time.DateOnly),
		})
	}
	done := logging.Track(log, "Client.FetchTransactions")

	data, err := c.adapter.FetchTransactions(ctx, c.session, account, r)
	if err != nil {
		done(err)
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(data))
	for i, d := range data {
		txn, err := model.NewTransaction(d, account)
		if err != nil {
			err = fmt.Errorf("transaction %d: %w", i, err)
			done(err)
			return nil, err
		}
		txns = append(txns, txn)
	}
	done(nil)
	return txns, nil
}

// TransactionsFor implements model.TransactionSource.
func (c *Client) TransactionsFor(ctx context.Context, account *model.Account, start, end time.Time) ([]model.Transaction, error) {
	return c.FetchTransactionsFor(ctx, account, start, end)
}

// DefaultRange is the window callers use when the user gives no dates: the
// configured number of years back through today.
func (c *Client) DefaultRange() bank.DateRange {
	y, m, d := c.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return bank.DateRange{Start: today.AddDate(-c.lookbackYears, 0, 0), End: today}
}

func (c *Client) ready() error {
	if s := c.State(); s != StateReady {
		return fmt.Errorf("%w: %s", ErrNotReady, s)
	}
	return nil
}

// load returns slot's value, filling it with fetch on first use. Concurrent
// callers share one fetch. Errors leave the slot empty.
func load[T any](ctx context.Context, c *Client, key string, slot *cacheSlot[T], fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.ready(); err != nil {
		return zero, err
	}

	c.mu.Lock()
	if slot.loaded {
		v := slot.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		if slot.loaded {
			v := slot.value
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		done := logging.Track(c.log, "Client.Load."+key)
		v, err := fetch(ctx)
		done(err)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		slot.value = v
		slot.loaded = true
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
