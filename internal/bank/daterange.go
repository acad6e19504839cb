package bank

import (
	"fmt"
	"time"
)

// DateRange is an inclusive range of days. The zero value means "whatever
// the backend returns by default".
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Validate rejects a range whose start is after its end.
func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange,
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	return nil
}

// Contains reports whether t falls on a day inside the range. Open ends are
// unbounded.
func (r DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	if !r.Start.IsZero() && day.Before(truncateDay(r.Start)) {
		return false
	}
	if !r.End.IsZero() && day.After(truncateDay(r.End)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
