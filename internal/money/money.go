// Package money implements an exact decimal amount tagged with an ISO 4217
// currency. Arithmetic never converts between currencies.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidCurrency  = errors.New("invalid currency")
)

// CurrencyMismatchError reports an operation between two different currencies.
type CurrencyMismatchError struct {
	Op    string
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("%s: %s and %s: %v", e.Op, e.Left, e.Right, ErrCurrencyMismatch)
}

func (e *CurrencyMismatchError) Unwrap() error {
	return ErrCurrencyMismatch
}

// Money is an immutable amount in a single currency. The zero value is not a
// valid money value; use New or Parse.
type Money struct {
	amount decimal.Decimal
	unit   currency.Unit
	valid  bool
}

// New returns a Money for amount in the currency with the given ISO code.
func New(amount decimal.Decimal, code string) (Money, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return Money{}, fmt.Errorf("%w %q: %v", ErrInvalidCurrency, code, err)
	}
	return Money{amount: amount, unit: unit, valid: true}, nil
}

// Parse builds a Money from a decimal string such as "-20.00".
func Parse(amount, code string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return New(d, code)
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(amount, code string) Money {
	m, err := Parse(amount, code)
	if err != nil {
		panic(err)
	}
	return m
}

// Valid reports whether m was built by a constructor.
func (m Money) Valid() bool {
	return m.valid
}

// Amount returns the exact decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO 4217 code, or "" for the zero value.
func (m Money) Currency() string {
	if !m.Valid() {
		return ""
	}
	return m.unit.String()
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Neg returns m with its sign flipped.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), unit: m.unit, valid: m.valid}
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency("add", other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), unit: m.unit, valid: m.valid}, nil
}

// Sub returns m - other.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency("subtract", other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), unit: m.unit, valid: m.valid}, nil
}

// Cmp returns -1, 0 or +1 like decimal.Decimal.Cmp.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency("compare", other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// Equal reports value equality: same currency and numerically equal amount,
// so 1.0 EUR equals 1.00 EUR.
func (m Money) Equal(other Money) bool {
	return m.valid == other.valid && m.unit == other.unit && m.amount.Equal(other.amount)
}

// StringFixed renders the amount with at least the currency's standard
// number of decimals. Extra precision is kept, never rounded away.
func (m Money) StringFixed() string {
	scale := int32(m.scale())
	if -m.amount.Exponent() > scale {
		return m.amount.String()
	}
	return m.amount.StringFixed(scale)
}

func (m Money) sameCurrency(op string, other Money) error {
	if m.unit != other.unit || m.valid != other.valid {
		return &CurrencyMismatchError{Op: op, Left: m.Currency(), Right: other.Currency()}
	}
	return nil
}

func (m Money) scale() int {
	if !m.Valid() {
		return 2
	}
	scale, _ := currency.Standard.Rounding(m.unit)
	return scale
}
