package services

import (
	"context"
	"fmt"
	"time"

	"agencia/internal/core"
	"agencia/internal/finance"
	"agencia/internal/log"

	"github.com/shopspring/decimal"
)

// ReportService derives monthly, annual and comparative statements from the
// aggregator. International income is converted at a fixed rate.
type ReportService struct {
	agg    *finance.Aggregator
	rate   decimal.Decimal
	logger *log.Logger
}

func NewReportService(agg *finance.Aggregator, exchangeRate decimal.Decimal, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportService{
		agg:    agg,
		rate:   exchangeRate,
		logger: logger.WithComponent(log.ComponentReport),
	}
}

// ExchangeRate returns the USD to local currency rate in use.
func (s *ReportService) ExchangeRate() decimal.Decimal {
	return s.rate
}

// Monthly builds the full statement for one month.
func (s *ReportService) Monthly(ctx context.Context, p core.Period) (core.MonthlyReport, error) {
	report := core.MonthlyReport{Period: p, ExchangeRate: s.rate}
	if err := p.Validate(); err != nil {
		return report, err
	}
	logger := s.logger.With(log.FieldOperation, log.OpMonthly, log.FieldYear, p.Year, log.FieldMonth, p.Month)

	general, err := s.agg.DomesticGeneralIncome(ctx, p)
	if err != nil {
		return report, fmt.Errorf("domestic general income %s: %w", p, err)
	}
	trips, err := s.agg.DomesticTripIncome(ctx, p)
	if err != nil {
		return report, fmt.Errorf("domestic trip income %s: %w", p, err)
	}
	intl, err := s.agg.InternationalTripIncome(ctx, p)
	if err != nil {
		return report, fmt.Errorf("international trip income %s: %w", p, err)
	}
	expenses, err := s.agg.Expenses(ctx, p)
	if err != nil {
		return report, fmt.Errorf("expenses %s: %w", p, err)
	}

	report.DomesticGeneral = general
	report.DomesticTrips = trips
	report.International = intl
	report.InternationalLocal = core.Convert(intl, s.rate)
	report.Expenses = expenses
	report.TotalIncome = general.Total.Add(trips).Add(report.InternationalLocal)
	report.NetProfit = report.TotalIncome.Sub(expenses.Total)
	report.Margin = core.Margin(report.NetProfit, report.TotalIncome)

	logger.DebugContext(ctx, "Monthly report computed",
		"net_profit", report.NetProfit.String())
	return report, nil
}

// Annual runs Monthly for January through December, in order.
func (s *ReportService) Annual(ctx context.Context, year int) (core.AnnualReport, error) {
	start := time.Now()
	annual := core.AnnualReport{Year: year}
	if err := core.ValidateYear(year); err != nil {
		return annual, err
	}

	months, err := s.summaries(ctx, core.MonthRange{Year: year, Start: 1, End: 12})
	if err != nil {
		return annual, err
	}

	annual.Months = months
	for _, m := range months {
		annual.TotalIncome = annual.TotalIncome.Add(m.TotalIncome)
		annual.TotalExpenses = annual.TotalExpenses.Add(m.TotalExpenses)
	}
	annual.NetProfit = annual.TotalIncome.Sub(annual.TotalExpenses)
	annual.Margin = core.Margin(annual.NetProfit, annual.TotalIncome)

	s.logger.InfoContext(ctx, "Annual report computed",
		log.FieldOperation, log.OpAnnual,
		log.FieldYear, year,
		log.FieldDuration, time.Since(start).Milliseconds())
	return annual, nil
}

// Comparative summarizes each month of the range and picks the one with
// the highest net profit. The earliest month wins a tie.
func (s *ReportService) Comparative(ctx context.Context, r core.MonthRange) (core.Comparison, error) {
	cmp := core.Comparison{Range: r}
	if err := r.Validate(); err != nil {
		return cmp, err
	}

	months, err := s.summaries(ctx, r)
	if err != nil {
		return cmp, err
	}

	cmp.Months = months
	cmp.Best = months[0]
	for _, m := range months[1:] {
		if m.NetProfit.GreaterThan(cmp.Best.NetProfit) {
			cmp.Best = m
		}
	}

	s.logger.InfoContext(ctx, "Comparative report computed",
		log.FieldOperation, log.OpCompare,
		log.FieldYear, r.Year,
		"best_month", cmp.Best.Period.Month)
	return cmp, nil
}

// Categories lists the expense category reference data.
func (s *ReportService) Categories(ctx context.Context) ([]core.ExpenseCategory, error) {
	return s.agg.Categories(ctx)
}

func (s *ReportService) summaries(ctx context.Context, r core.MonthRange) ([]core.MonthSummary, error) {
	out := make([]core.MonthSummary, 0, r.End-r.Start+1)
	for _, p := range r.Periods() {
		report, err := s.Monthly(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, report.Summary())
	}
	return out, nil
}
