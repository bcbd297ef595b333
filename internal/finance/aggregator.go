// Package finance turns raw agency rows into monthly income and expense figures.
package finance

import (
	"context"
	"fmt"
	"sort"

	"agencia/internal/core"
	"agencia/internal/log"

	"github.com/shopspring/decimal"
)

type Aggregator struct {
	source Source
	logger *log.Logger
}

func NewAggregator(source Source, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Aggregator{
		source: source,
		logger: logger.WithComponent(log.ComponentFinance),
	}
}

// DomesticGeneralIncome sums Riviera Maya sales of the month into the
// general, blocked and group buckets. A sale flagged both blocked and group
// lands in both buckets.
func (a *Aggregator) DomesticGeneralIncome(ctx context.Context, p core.Period) (core.DomesticGeneralIncome, error) {
	var out core.DomesticGeneralIncome
	if err := p.Validate(); err != nil {
		return out, err
	}

	sales, err := a.source.Sales(ctx, p.Year)
	if err != nil {
		return out, fmt.Errorf("read sales: %w", err)
	}

	for _, s := range sales {
		if !s.Start.In(p) {
			continue
		}
		if !s.Blocked && !s.Group {
			out.General = out.General.Add(s.Paid)
		}
		if s.Blocked {
			out.Blocked = out.Blocked.Add(s.Paid)
		}
		if s.Group {
			out.Group = out.Group.Add(s.Paid)
		}
	}
	out.Total = out.General.Add(out.Blocked).Add(out.Group)

	a.logger.DebugContext(ctx, "Domestic general income",
		log.FieldYear, p.Year,
		log.FieldMonth, p.Month,
		"total", out.Total.String())
	return out, nil
}

// DomesticTripIncome sums client payments for domestic trips departing in the month.
func (a *Aggregator) DomesticTripIncome(ctx context.Context, p core.Period) (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	payments, err := a.source.DomesticTripPayments(ctx, p.Year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read domestic trip payments: %w", err)
	}
	return sumPayments(payments, p), nil
}

// InternationalTripIncome is like DomesticTripIncome but in USD. Conversion
// is the caller's job.
func (a *Aggregator) InternationalTripIncome(ctx context.Context, p core.Period) (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	payments, err := a.source.InternationalTripPayments(ctx, p.Year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read international trip payments: %w", err)
	}
	return sumPayments(payments, p), nil
}

// Expenses groups the month's operating expenses by category, largest first.
func (a *Aggregator) Expenses(ctx context.Context, p core.Period) (core.ExpenseBreakdown, error) {
	out := core.ExpenseBreakdown{Total: decimal.Zero}
	if err := p.Validate(); err != nil {
		return out, err
	}

	expenses, err := a.source.OperatingExpenses(ctx, p)
	if err != nil {
		return out, fmt.Errorf("read operating expenses: %w", err)
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.Month != p.Month || e.Year != p.Year {
			continue
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		out.Total = out.Total.Add(e.Amount)
	}

	out.ByCategory = make([]core.CategoryAmount, 0, len(byCategory))
	for name, amount := range byCategory {
		out.ByCategory = append(out.ByCategory, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out.ByCategory, func(i, j int) bool {
		ci, cj := out.ByCategory[i], out.ByCategory[j]
		if c := ci.Amount.Cmp(cj.Amount); c != 0 {
			return c > 0
		}
		return ci.Name < cj.Name
	})

	return out, nil
}

// Categories returns the expense category reference list.
func (a *Aggregator) Categories(ctx context.Context) ([]core.ExpenseCategory, error) {
	cats, err := a.source.ExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("read expense categories: %w", err)
	}
	return cats, nil
}

func sumPayments(payments []core.TripPayment, p core.Period) decimal.Decimal {
	total := decimal.Zero
	for _, pay := range payments {
		if pay.Departure.In(p) {
			total = total.Add(pay.Amount)
		}
	}
	return total
}
