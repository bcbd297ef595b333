package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"agencia/internal/core"
	"agencia/internal/finance"
	"agencia/internal/memory"
	"agencia/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	monthly []core.MonthlyReport
	annual  []core.AnnualReport
	err     error
}

func (e *fakeExporter) SaveMonthly(r core.MonthlyReport) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.monthly = append(e.monthly, r)
	return "/reportes/Report_" + r.Period.String() + ".xlsx", nil
}

func (e *fakeExporter) SaveAnnual(r core.AnnualReport) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.annual = append(e.annual, r)
	return "/reportes/annual.xlsx", nil
}

// countingReports counts report requests.
type countingReports struct {
	Reports
	calls int
}

func (c *countingReports) Monthly(ctx context.Context, p core.Period) (core.MonthlyReport, error) {
	c.calls++
	return c.Reports.Monthly(ctx, p)
}

func (c *countingReports) Comparative(ctx context.Context, r core.MonthRange) (core.Comparison, error) {
	c.calls++
	return c.Reports.Comparative(ctx, r)
}

func newReports() *services.ReportService {
	s := memory.New("Renta", "Nómina")
	s.AddSale(core.Sale{Start: core.NewDate(2024, 3, 5), Paid: decimal.NewFromInt(1000)})
	s.AddSale(core.Sale{Start: core.NewDate(2024, 3, 12), Paid: decimal.NewFromInt(500), Blocked: true})
	s.AddSale(core.Sale{Start: core.NewDate(2024, 2, 1), Paid: decimal.NewFromInt(300)})
	s.AddExpense(core.OperatingExpense{Category: "Renta", Amount: decimal.NewFromInt(300), Month: 3, Year: 2024})
	return services.NewReportService(finance.NewAggregator(s, nil), decimal.NewFromInt(17), nil)
}

func run(t *testing.T, input string, reports Reports, exp Exporter) string {
	t.Helper()
	var out bytes.Buffer
	err := New(strings.NewReader(input), &out, reports, exp, nil).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestShell_MonthlyReport(t *testing.T) {
	out := run(t, "1\n3\n2024\n0\n", newReports(), &fakeExporter{})

	assert.Contains(t, out, "REPORTE MENSUAL MARZO 2024")
	assert.Contains(t, out, "$1,500.00")
	assert.Contains(t, out, "$1,200.00")
	assert.Contains(t, out, "80.00%")
	assert.Contains(t, out, "Hasta luego.")
}

func TestShell_AnnualAndComparative(t *testing.T) {
	out := run(t, "2\n2024\n3\n2024\n1\n4\n0\n", newReports(), &fakeExporter{})

	assert.Contains(t, out, "REPORTE ANUAL 2024")
	assert.Contains(t, out, "COMPARATIVO ENERO A ABRIL 2024")
	assert.Contains(t, out, "Mejor mes: Marzo")
}

func TestShell_InvalidInputNeverQueries(t *testing.T) {
	reports := &countingReports{Reports: newReports()}
	input := strings.Join([]string{
		"1", "13", "2024", // month out of range
		"1", "marzo", // not a number
		"3", "2024", "5", "2", // start after end
		"9", // unknown option
		"0",
	}, "\n") + "\n"

	out := run(t, input, reports, &fakeExporter{})

	assert.Zero(t, reports.calls)
	assert.Contains(t, out, "invalid month")
	assert.Contains(t, out, "se esperaba un número")
	assert.Contains(t, out, "invalid month range")
	assert.Contains(t, out, "Opción no válida")
}

func TestShell_Export(t *testing.T) {
	exp := &fakeExporter{}
	out := run(t, "4\n3\n2024\n5\n2024\n0\n", newReports(), exp)

	require.Len(t, exp.monthly, 1)
	require.Len(t, exp.annual, 1)
	assert.True(t, exp.monthly[0].NetProfit.Equal(decimal.NewFromInt(1200)))
	assert.Contains(t, out, "Reporte guardado en /reportes/Report_2024-03.xlsx")
}

func TestShell_ExportFailureKeepsRunning(t *testing.T) {
	exp := &fakeExporter{err: errors.New("permission denied")}
	out := run(t, "4\n3\n2024\n6\n0\n", newReports(), exp)

	assert.Contains(t, out, "No se generó el archivo: permission denied")
	assert.Contains(t, out, "CATEGORÍAS DE GASTOS")
	assert.Contains(t, out, "Nómina")
}

func TestShell_EOFExitsCleanly(t *testing.T) {
	out := run(t, "1\n3\n", newReports(), &fakeExporter{})
	assert.Contains(t, out, "Año: ")
	assert.NotContains(t, out, "Error")
}

func TestShell_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := New(strings.NewReader("1\n"), &out, newReports(), &fakeExporter{}, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
