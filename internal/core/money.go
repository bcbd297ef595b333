// Package core provides the agency domain types and money helpers.
//
// Money is carried as decimal.Decimal end to end; floats only appear at the
// edges (SQLite REAL columns on the way in, formatting on the way out).
package core

import (
	"github.com/shopspring/decimal"
)

// DefaultExchangeRate converts USD trip payments into local currency.
const DefaultExchangeRate = 17.0

var hundred = decimal.NewFromInt(100)

// Margin returns net/income as a percentage, or zero when income is zero.
//
// Examples:
//	Margin(250, 1000) -> 25
//	Margin(-40, 0)    -> 0
func Margin(net, income decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return net.Div(income).Mul(hundred)
}

// Convert applies a fixed exchange rate to a foreign-currency amount.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate)
}

// FromFloat converts a SQLite REAL into a decimal amount.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
