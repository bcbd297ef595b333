package finance

import (
	"context"

	"agencia/internal/core"
)

// Ports for the data the aggregator reads.
type (
	// SalesReader returns sales whose start date falls in the given year.
	SalesReader interface {
		Sales(ctx context.Context, year int) ([]core.Sale, error)
	}

	// TripPaymentReader returns one row per client payment joined to its trip,
	// for trips departing in the given year.
	TripPaymentReader interface {
		DomesticTripPayments(ctx context.Context, year int) ([]core.TripPayment, error)
		// InternationalTripPayments amounts are USD.
		InternationalTripPayments(ctx context.Context, year int) ([]core.TripPayment, error)
	}

	ExpenseReader interface {
		// OperatingExpenses filters on the explicit month/year columns.
		OperatingExpenses(ctx context.Context, p core.Period) ([]core.OperatingExpense, error)
		ExpenseCategories(ctx context.Context) ([]core.ExpenseCategory, error)
	}

	Source interface {
		SalesReader
		TripPaymentReader
		ExpenseReader
	}
)
