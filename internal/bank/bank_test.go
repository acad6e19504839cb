package bank

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankscrap-dev/bankscrap/internal/model"
	"github.com/bankscrap-dev/bankscrap/internal/money"
)

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCredentialsRequire(t *testing.T) {
	creds := Credentials{"user": "alice", "password": ""}

	err := creds.Require("user", "password", "pin")
	require.ErrorIs(t, err, ErrAuthentication)
	assert.Contains(t, err.Error(), "[password pin]")

	assert.NoError(t, creds.Require("user"))
}

func TestAdapterError(t *testing.T) {
	err := &AdapterError{Bank: "BBVA", Operation: "Login", Cause: ErrRateLimited, Details: "429"}

	assert.Equal(t, "[BBVA] Login failed: rate limited - 429", err.Error())
	assert.ErrorIs(t, err, ErrRateLimited)

	wrapped := fmt.Errorf("listing accounts: %w", err)
	var ae *AdapterError
	require.ErrorAs(t, wrapped, &ae)
	assert.Equal(t, "Login", ae.Operation)
}

func TestKind(t *testing.T) {
	_, mismatch := money.MustParse("1", "EUR").Add(money.MustParse("1", "USD"))

	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&model.TypeMismatchError{Entity: "account", Field: "balance"}, "type_mismatch"},
		{mismatch, "currency_mismatch"},
		{fmt.Errorf("x: %w", ErrUnknownBank), "unknown_bank"},
		{&AdapterError{Cause: ErrAuthentication}, "authentication"},
		{ErrRateLimited, "rate_limited"},
		{ErrUnavailable, "unavailable"},
		{ErrParse, "parse"},
		{ErrNotFound, "not_found"},
		{ErrInvalidDateRange, "invalid_date_range"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "Kind(%v)", tt.err)
	}
}

func TestDateRangeValidate(t *testing.T) {
	assert.NoError(t, DateRange{}.Validate())
	assert.NoError(t, DateRange{Start: day("2023-01-01"), End: day("2023-01-01")}.Validate())
	assert.NoError(t, DateRange{Start: day("2023-01-01")}.Validate())

	err := DateRange{Start: day("2023-02-01"), End: day("2023-01-01")}.Validate()
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: day("2023-01-02"), End: day("2023-01-03")}

	assert.False(t, r.Contains(day("2023-01-01")))
	assert.True(t, r.Contains(day("2023-01-02")))
	assert.True(t, r.Contains(day("2023-01-03").Add(23*time.Hour)))
	assert.False(t, r.Contains(day("2023-01-04")))

	assert.True(t, DateRange{}.Contains(day("1990-01-01")))
	assert.True(t, DateRange{}.IsZero())
}
