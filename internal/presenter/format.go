// Package presenter renders report figures for the console and as xlsx workbooks.
package presenter

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency formats an amount as $1,234.50 (negatives as -$1,234.50).
func Currency(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", f)
}

// Percent formats a percentage with one decimal, e.g. 80.0%.
func Percent(d decimal.Decimal) string {
	return percent(d, 1, "#,###.#")
}

// PercentPrecise is Percent with two decimals.
func PercentPrecise(d decimal.Decimal) string {
	return percent(d, 2, "#,###.##")
}

func percent(d decimal.Decimal, places int32, format string) string {
	f, _ := d.Round(places).Float64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + humanize.FormatFloat(format, f) + "%"
}
