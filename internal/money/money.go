// Package money formats amounts for display. It never converts currencies.
package money

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Round rounds amount to cents, half away from zero.
func Round(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// Format renders amount as "GHS 1,496,800.00". An empty currency omits the
// prefix.
func Format(amount float64, currency string) string {
	s := Amount(amount)
	if currency = strings.TrimSpace(currency); currency != "" {
		return currency + " " + s
	}
	return s
}

// Amount renders amount with thousands separators and two decimals.
func Amount(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return sign + humanize.Comma(whole.IntPart()) + fmt.Sprintf(".%02d", cents)
}

// Percent renders a percentage with one decimal, e.g. "44.1%".
func Percent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}
