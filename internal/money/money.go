// Package money renders server-provided amounts for display. It never
// computes totals.
package money

import (
	"math"

	"github.com/dustin/go-humanize"
)

const DefaultCurrency = "₪"

// Format renders v with two decimals, thousands grouping and the currency
// symbol. Whole amounts keep the trailing ".00".
func Format(v float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + Amount(v)
}

// Amount is Format without a currency symbol.
func Amount(v float64) string {
	if v < 0 {
		return "-" + humanize.FormatFloat("#,###.##", math.Abs(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}
