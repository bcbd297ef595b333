package finance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"agencia/internal/cache"
	"agencia/internal/core"
)

// CachedSource memoizes Source reads by year or period.
type CachedSource struct {
	src        Source
	sales      *cache.LRU[[]core.Sale]
	payments   *cache.LRU[[]core.TripPayment]
	expenses   *cache.LRU[[]core.OperatingExpense]
	categories *cache.LRU[[]core.ExpenseCategory]
}

func NewCachedSource(src Source, size int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		src:        src,
		sales:      cache.NewLRU[[]core.Sale](size, ttl),
		payments:   cache.NewLRU[[]core.TripPayment](size, ttl),
		expenses:   cache.NewLRU[[]core.OperatingExpense](size, ttl),
		categories: cache.NewLRU[[]core.ExpenseCategory](1, ttl),
	}
}

func (c *CachedSource) Sales(ctx context.Context, year int) ([]core.Sale, error) {
	return cache.GetOrLoad[[]core.Sale](c.sales, strconv.Itoa(year), func() ([]core.Sale, error) {
		return c.src.Sales(ctx, year)
	})
}

func (c *CachedSource) DomesticTripPayments(ctx context.Context, year int) ([]core.TripPayment, error) {
	return cache.GetOrLoad[[]core.TripPayment](c.payments, fmt.Sprintf("nacional/%d", year), func() ([]core.TripPayment, error) {
		return c.src.DomesticTripPayments(ctx, year)
	})
}

func (c *CachedSource) InternationalTripPayments(ctx context.Context, year int) ([]core.TripPayment, error) {
	return cache.GetOrLoad[[]core.TripPayment](c.payments, fmt.Sprintf("internacional/%d", year), func() ([]core.TripPayment, error) {
		return c.src.InternationalTripPayments(ctx, year)
	})
}

func (c *CachedSource) OperatingExpenses(ctx context.Context, p core.Period) ([]core.OperatingExpense, error) {
	return cache.GetOrLoad[[]core.OperatingExpense](c.expenses, p.String(), func() ([]core.OperatingExpense, error) {
		return c.src.OperatingExpenses(ctx, p)
	})
}

func (c *CachedSource) ExpenseCategories(ctx context.Context) ([]core.ExpenseCategory, error) {
	return cache.GetOrLoad[[]core.ExpenseCategory](c.categories, "all", func() ([]core.ExpenseCategory, error) {
		return c.src.ExpenseCategories(ctx)
	})
}

// Purge forgets everything read so far.
func (c *CachedSource) Purge() {
	c.sales.Purge()
	c.payments.Purge()
	c.expenses.Purge()
	c.categories.Purge()
}
