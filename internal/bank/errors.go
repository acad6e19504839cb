package bank

import (
	"errors"
	"fmt"

	"github.com/bankscrap-dev/bankscrap/internal/model"
	"github.com/bankscrap-dev/bankscrap/internal/money"
)

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnavailable    = errors.New("backend unavailable")
	ErrParse          = errors.New("failed to parse bank response")

	ErrNotFound         = errors.New("not found")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrUnknownBank      = errors.New("unknown bank")
)

// AdapterError provides detailed error context for a failed adapter call.
type AdapterError struct {
	Bank      string
	Operation string
	Cause     error
	Details   string
}

func (e *AdapterError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("[%s] %s failed: %v", e.Bank, e.Operation, e.Cause)
	}
	return fmt.Sprintf("[%s] %s failed: %v - %s", e.Bank, e.Operation, e.Cause, e.Details)
}

func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// Kind names the error kind of err, or "unknown" for errors outside the
// taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, money.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, ErrUnknownBank):
		return "unknown_bank"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	default:
		return "unknown"
	}
}
