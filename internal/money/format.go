package money

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders m for display with the grouping and decimal separators of
// the given locale. The symbol always comes first ("€ 1.234,50" for German),
// whatever the locale's own placement. The display path goes through
// float64; use Amount for exact values.
func (m Money) Format(tag language.Tag) string {
	if !m.Valid() {
		return ""
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v %v",
		currency.Symbol(m.unit),
		number.Decimal(m.amount.InexactFloat64(), number.Scale(m.scale())))
}

// String formats m for an English locale.
func (m Money) String() string {
	return m.Format(language.English)
}
