package presenter

import (
	"fmt"
	"io"
	"strings"

	"agencia/internal/core"
)

const (
	labelWidth  = 34
	amountWidth = 18
	ruleWidth   = labelWidth + amountWidth
)

// Console writes fixed-width text reports.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Monthly(r core.MonthlyReport) {
	c.banner(fmt.Sprintf("REPORTE MENSUAL %s %d", strings.ToUpper(core.MonthName(r.Period.Month)), r.Period.Year))

	c.section("INGRESOS")
	c.line("Riviera Maya general", Currency(r.DomesticGeneral.General))
	c.line("Riviera Maya bloqueos", Currency(r.DomesticGeneral.Blocked))
	c.line("Riviera Maya grupos", Currency(r.DomesticGeneral.Group))
	c.line("Subtotal Riviera Maya", Currency(r.DomesticGeneral.Total))
	c.line("Viajes nacionales", Currency(r.DomesticTrips))
	c.line(fmt.Sprintf("Viajes internacionales (USD %s)", Currency(r.International)), Currency(r.InternationalLocal))
	c.line(fmt.Sprintf("  tipo de cambio %s", r.ExchangeRate.StringFixed(2)), "")
	c.rule()
	c.line("TOTAL INGRESOS", Currency(r.TotalIncome))

	c.section("GASTOS OPERATIVOS")
	if len(r.Expenses.ByCategory) == 0 {
		c.line("Sin gastos registrados", Currency(r.Expenses.Total))
	}
	for _, cat := range r.Expenses.ByCategory {
		c.line(cat.Name, Currency(cat.Amount))
	}
	c.rule()
	c.line("TOTAL GASTOS", Currency(r.Expenses.Total))

	c.section("RESULTADO")
	c.line("UTILIDAD NETA", Currency(r.NetProfit))
	c.line("MARGEN", PercentPrecise(r.Margin))
	fmt.Fprintln(c.w)
}

func (c *Console) Annual(r core.AnnualReport) {
	c.banner(fmt.Sprintf("REPORTE ANUAL %d", r.Year))
	c.summaryTable(r.Months, nil)
	fmt.Fprintf(c.w, "%-12s %16s %16s %16s %9s\n", "TOTAL",
		Currency(r.TotalIncome), Currency(r.TotalExpenses), Currency(r.NetProfit), Percent(r.Margin))
	fmt.Fprintln(c.w)
}

func (c *Console) Comparative(cmp core.Comparison) {
	c.banner(fmt.Sprintf("COMPARATIVO %s A %s %d",
		strings.ToUpper(core.MonthName(cmp.Range.Start)),
		strings.ToUpper(core.MonthName(cmp.Range.End)),
		cmp.Range.Year))
	best := cmp.Best.Period
	c.summaryTable(cmp.Months, &best)
	fmt.Fprintf(c.w, "\nMejor mes: %s con utilidad de %s (margen %s)\n\n",
		core.MonthName(best.Month), Currency(cmp.Best.NetProfit), Percent(cmp.Best.Margin))
}

func (c *Console) Categories(cats []core.ExpenseCategory) {
	c.banner("CATEGORÍAS DE GASTOS")
	for _, cat := range cats {
		fmt.Fprintf(c.w, "%-16s %-8s %s\n", cat.Name, cat.Color, cat.Description)
	}
	fmt.Fprintln(c.w)
}

// Saved reports where a workbook was written, or that none was.
func (c *Console) Saved(path string, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(c.w, "No se generó el archivo: %v\n", err)
		return
	case path == "":
		fmt.Fprintln(c.w, "No se generó el archivo.")
		return
	}
	fmt.Fprintf(c.w, "Reporte guardado en %s\n", path)
}

func (c *Console) summaryTable(months []core.MonthSummary, mark *core.Period) {
	fmt.Fprintf(c.w, "%-12s %16s %16s %16s %9s\n", "MES", "INGRESOS", "GASTOS", "UTILIDAD", "MARGEN")
	fmt.Fprintln(c.w, strings.Repeat("-", 73))
	for _, m := range months {
		name := core.MonthName(m.Period.Month)
		if mark != nil && *mark == m.Period {
			name += " *"
		}
		fmt.Fprintf(c.w, "%-12s %16s %16s %16s %9s\n", name,
			Currency(m.TotalIncome), Currency(m.TotalExpenses), Currency(m.NetProfit), Percent(m.Margin))
	}
	fmt.Fprintln(c.w, strings.Repeat("-", 73))
}

func (c *Console) banner(title string) {
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(c.w, "%*s\n", (ruleWidth+len(title))/2, title)
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
}

func (c *Console) section(title string) {
	fmt.Fprintf(c.w, "\n%s\n", title)
}

func (c *Console) line(label, amount string) {
	fmt.Fprintf(c.w, "  %-*s%*s\n", labelWidth-2, label, amountWidth, amount)
}

func (c *Console) rule() {
	fmt.Fprintln(c.w, strings.Repeat("-", ruleWidth))
}
