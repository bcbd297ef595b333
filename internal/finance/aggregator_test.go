package finance

import (
	"context"
	"errors"
	"testing"

	"agencia/internal/core"
	"agencia/internal/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2024 = core.Period{Year: 2024, Month: 3}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

type countingSource struct {
	*memory.Store
	calls int
	err   error
}

func (c *countingSource) Sales(ctx context.Context, year int) ([]core.Sale, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.Sales(ctx, year)
}

func (c *countingSource) OperatingExpenses(ctx context.Context, p core.Period) ([]core.OperatingExpense, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.OperatingExpenses(ctx, p)
}

func TestAggregator_EmptyPeriodIsZero(t *testing.T) {
	ctx := context.Background()
	a := NewAggregator(memory.New(), nil)

	general, err := a.DomesticGeneralIncome(ctx, march2024)
	require.NoError(t, err)
	assert.True(t, general.Total.IsZero())
	assert.True(t, general.General.IsZero())

	trips, err := a.DomesticTripIncome(ctx, march2024)
	require.NoError(t, err)
	assert.True(t, trips.IsZero())

	intl, err := a.InternationalTripIncome(ctx, march2024)
	require.NoError(t, err)
	assert.True(t, intl.IsZero())

	exp, err := a.Expenses(ctx, march2024)
	require.NoError(t, err)
	assert.True(t, exp.Total.IsZero())
	assert.Empty(t, exp.ByCategory)
}

func TestAggregator_DomesticGeneralBuckets(t *testing.T) {
	s := memory.New()
	s.AddSale(core.Sale{Start: core.NewDate(2024, 3, 5), Paid: dec(1000)})
	s.AddSale(core.Sale{Start: core.NewDate(2024, 3, 12), Paid: dec(500), Blocked: true})
	s.AddSale(core.Sale{Start: core.NewDate(2024, 3, 20), Paid: dec(300), Group: true})
	s.AddSale(core.Sale{Start: core.NewDate(2024, 3, 21), Paid: dec(100), Blocked: true, Group: true})
	s.AddSale(core.Sale{Start: core.NewDate(2024, 4, 1), Paid: dec(9999)})

	got, err := NewAggregator(s, nil).DomesticGeneralIncome(context.Background(), march2024)
	require.NoError(t, err)

	assert.True(t, got.General.Equal(dec(1000)), "general = %s", got.General)
	assert.True(t, got.Blocked.Equal(dec(600)), "blocked = %s", got.Blocked)
	assert.True(t, got.Group.Equal(dec(400)), "group = %s", got.Group)
	// the dual-flagged sale of 100 counts twice
	assert.True(t, got.Total.Equal(dec(2000)), "total = %s", got.Total)
	assert.True(t, got.Total.Equal(got.General.Add(got.Blocked).Add(got.Group)))
}

func TestAggregator_TripIncome(t *testing.T) {
	s := memory.New()
	s.AddDomesticPayment(core.TripPayment{Departure: core.NewDate(2024, 3, 1), Amount: dec(1200)})
	s.AddDomesticPayment(core.TripPayment{Departure: core.NewDate(2024, 3, 30), Amount: dec(800)})
	s.AddDomesticPayment(core.TripPayment{Departure: core.NewDate(2024, 2, 28), Amount: dec(50)})
	s.AddInternationalPayment(core.TripPayment{Departure: core.NewDate(2024, 3, 15), Amount: dec(150)})

	a := NewAggregator(s, nil)
	dom, err := a.DomesticTripIncome(context.Background(), march2024)
	require.NoError(t, err)
	assert.True(t, dom.Equal(dec(2000)))

	intl, err := a.InternationalTripIncome(context.Background(), march2024)
	require.NoError(t, err)
	assert.True(t, intl.Equal(dec(150)))
}

func TestAggregator_ExpensesSortedAndSummed(t *testing.T) {
	s := memory.New()
	for _, e := range []core.OperatingExpense{
		{Category: "Renta", Amount: dec(300), Month: 3, Year: 2024},
		{Category: "Nómina", Amount: dec(250.5), Month: 3, Year: 2024},
		{Category: "Nómina", Amount: dec(250), Month: 3, Year: 2024},
		{Category: "Publicidad", Amount: dec(300), Month: 3, Year: 2024},
		{Category: "Otros", Amount: dec(10.25), Month: 3, Year: 2024},
		{Category: "Renta", Amount: dec(300), Month: 4, Year: 2024},
	} {
		s.AddExpense(e)
	}

	got, err := NewAggregator(s, nil).Expenses(context.Background(), march2024)
	require.NoError(t, err)

	names := make([]string, len(got.ByCategory))
	sum := decimal.Zero
	for i, c := range got.ByCategory {
		names[i] = c.Name
		sum = sum.Add(c.Amount)
		if i > 0 {
			assert.True(t, got.ByCategory[i-1].Amount.GreaterThanOrEqual(c.Amount))
		}
	}
	assert.Equal(t, []string{"Nómina", "Publicidad", "Renta", "Otros"}, names)
	assert.True(t, sum.Equal(got.Total))
	assert.True(t, got.Total.Equal(dec(1110.75)))
}

func TestAggregator_RejectsInvalidPeriodBeforeQuery(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{Store: memory.New()}
	a := NewAggregator(src, nil)

	for _, p := range []core.Period{
		{Year: 2024, Month: 0},
		{Year: 2024, Month: 13},
		{Year: 0, Month: 3},
		{Year: 10000, Month: 3},
	} {
		_, err := a.DomesticGeneralIncome(ctx, p)
		assert.Error(t, err)
		_, err = a.Expenses(ctx, p)
		assert.Error(t, err)
	}
	assert.Zero(t, src.calls)

	_, err := a.Expenses(ctx, core.Period{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
	_, err = a.DomesticTripIncome(ctx, core.Period{Year: 1, Month: 1})
	assert.ErrorIs(t, err, core.ErrInvalidYear)
}

func TestAggregator_SourceErrorIsWrapped(t *testing.T) {
	boom := errors.New("database is locked")
	src := &countingSource{Store: memory.New(), err: boom}

	_, err := NewAggregator(src, nil).DomesticGeneralIncome(context.Background(), march2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read sales")
}

func TestAggregator_Categories(t *testing.T) {
	cats, err := NewAggregator(memory.New("Renta", "Otros"), nil).Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Renta", cats[0].Name)
}
