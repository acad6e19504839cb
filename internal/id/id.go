// Package id derives stable transaction IDs for backends that do not supply
// their own.
package id

import (
	"fmt"
	"time"
)

const dateLayout = "20060102"

// FormatTransactionID returns an ID like "acc-1_20250103_002", where seq
// counts transactions on the same day starting at 1.
func FormatTransactionID(accountID string, date time.Time, seq int) string {
	return fmt.Sprintf("%s_%s_%03d", accountID, date.Format(dateLayout), seq)
}

// Sequencer hands out per-day sequence numbers in call order.
type Sequencer struct {
	last map[string]int
}

func NewSequencer() *Sequencer {
	return &Sequencer{last: make(map[string]int)}
}

// Next returns the next ID for a transaction of accountID on date.
func (s *Sequencer) Next(accountID string, date time.Time) string {
	key := date.Format(dateLayout)
	s.last[key]++
	return FormatTransactionID(accountID, date, s.last[key])
}
