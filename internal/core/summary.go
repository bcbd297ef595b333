package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// ExpenseBreakdown is the operating-expense view of one month.
// ByCategory is sorted by amount, largest first.
type ExpenseBreakdown struct {
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// DomesticGeneralIncome splits Riviera Maya sales into three buckets.
// Total is always General+Blocked+Group, so a sale flagged both blocked and
// group contributes twice.
type DomesticGeneralIncome struct {
	General decimal.Decimal
	Blocked decimal.Decimal
	Group   decimal.Decimal
	Total   decimal.Decimal
}

// MonthSummary is the P&L line of a single month.
type MonthSummary struct {
	Period        Period
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
	Margin        decimal.Decimal
}

// MonthlyReport is the full monthly statement.
type MonthlyReport struct {
	Period Period
	// ExchangeRate used to convert International into local currency.
	ExchangeRate       decimal.Decimal
	DomesticGeneral    DomesticGeneralIncome
	DomesticTrips      decimal.Decimal
	International      decimal.Decimal // USD
	InternationalLocal decimal.Decimal
	Expenses           ExpenseBreakdown
	TotalIncome        decimal.Decimal
	NetProfit          decimal.Decimal
	Margin             decimal.Decimal
}

// Summary collapses the report to its P&L line.
func (r MonthlyReport) Summary() MonthSummary {
	return MonthSummary{
		Period:        r.Period,
		TotalIncome:   r.TotalIncome,
		TotalExpenses: r.Expenses.Total,
		NetProfit:     r.NetProfit,
		Margin:        r.Margin,
	}
}

// AnnualReport holds the twelve monthly lines and the year totals.
type AnnualReport struct {
	Year          int
	Months        []MonthSummary
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
	Margin        decimal.Decimal
}

// Comparison covers an arbitrary month range and remembers the best month.
type Comparison struct {
	Range  MonthRange
	Months []MonthSummary
	Best   MonthSummary
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish month name, or "" outside 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}
