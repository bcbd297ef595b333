package presenter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agencia/internal/core"
	"agencia/internal/log"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	timestampLayout = "20060102_150405"
	monthlySheet    = "Resumen"
	annualSheet     = "Anual"
)

var (
	currencyFmt = `"$"#,##0.00;-"$"#,##0.00`
	percentFmt  = `0.00"%"`
)

// Workbook writes reports as xlsx files into a directory.
type Workbook struct {
	dir    string
	now    func() time.Time
	logger *log.Logger
}

func NewWorkbook(dir string, logger *log.Logger) *Workbook {
	if logger == nil {
		logger = log.Discard()
	}
	return &Workbook{
		dir:    dir,
		now:    time.Now,
		logger: logger.WithComponent(log.ComponentReport),
	}
}

// FileName builds Report_<period>_<timestamp>.xlsx.
func FileName(period string, at time.Time) string {
	return fmt.Sprintf("Report_%s_%s.xlsx", period, at.Format(timestampLayout))
}

type styles struct {
	title, header, label, currency, percent, total, highlight int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.header, &excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "1F4E78"},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		}},
		{&s.label, &excelize.Style{
			Alignment: &excelize.Alignment{Indent: 1},
		}},
		{&s.currency, &excelize.Style{CustomNumFmt: &currencyFmt}},
		{&s.percent, &excelize.Style{CustomNumFmt: &percentFmt}},
		{&s.total, &excelize.Style{
			Font:         &excelize.Font{Bold: true},
			Border:       []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
			CustomNumFmt: &currencyFmt,
		}},
		{&s.highlight, &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 12},
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
			CustomNumFmt: &currencyFmt,
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
		*d.dst = id
	}
	return s, nil
}

// sheetWriter keeps the first error so layouts read top to bottom.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(cell string, v any) {
	if w.err != nil {
		return
	}
	if d, ok := v.(decimal.Decimal); ok {
		v, _ = d.Float64()
	}
	w.err = w.f.SetCellValue(w.sheet, cell, v)
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, id)
}

func (w *sheetWriter) merge(from, to string) {
	if w.err != nil {
		return
	}
	w.err = w.f.MergeCell(w.sheet, from, to)
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.sheet, col, col, width)
}

// row writes a label in A and an amount in B.
func (w *sheetWriter) row(n int, label string, v any, styleID int) {
	a, b := fmt.Sprintf("A%d", n), fmt.Sprintf("B%d", n)
	w.set(a, label)
	w.set(b, v)
	w.style(b, b, styleID)
}

// SaveMonthly writes the monthly statement. On failure it returns "" and the error.
func (wb *Workbook) SaveMonthly(r core.MonthlyReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return "", err
	}
	if err := f.SetSheetName("Sheet1", monthlySheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	w := &sheetWriter{f: f, sheet: monthlySheet}
	w.width("A", 38)
	w.width("B", 20)

	w.set("A1", fmt.Sprintf("Reporte Mensual %s %d", core.MonthName(r.Period.Month), r.Period.Year))
	w.merge("A1", "B1")
	w.style("A1", "B1", st.title)
	w.set("A2", "Tipo de cambio USD")
	w.set("B2", r.ExchangeRate)

	n := 4
	w.set(fmt.Sprintf("A%d", n), "INGRESOS")
	w.style(fmt.Sprintf("A%d", n), fmt.Sprintf("B%d", n), st.header)
	n++
	for _, line := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Riviera Maya general", r.DomesticGeneral.General},
		{"Riviera Maya bloqueos", r.DomesticGeneral.Blocked},
		{"Riviera Maya grupos", r.DomesticGeneral.Group},
		{"Viajes nacionales", r.DomesticTrips},
		{"Viajes internacionales (USD)", r.International},
		{"Viajes internacionales (MXN)", r.InternationalLocal},
	} {
		w.row(n, line.label, line.amount, st.currency)
		w.style(fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), st.label)
		n++
	}
	w.row(n, "Total ingresos", r.TotalIncome, st.total)
	n += 2

	w.set(fmt.Sprintf("A%d", n), "GASTOS OPERATIVOS")
	w.style(fmt.Sprintf("A%d", n), fmt.Sprintf("B%d", n), st.header)
	n++
	for _, cat := range r.Expenses.ByCategory {
		w.row(n, cat.Name, cat.Amount, st.currency)
		w.style(fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), st.label)
		n++
	}
	w.row(n, "Total gastos", r.Expenses.Total, st.total)
	n += 2

	w.row(n, "UTILIDAD NETA", r.NetProfit, st.highlight)
	w.style(fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), st.highlight)
	n++
	w.row(n, "MARGEN", r.Margin, st.percent)

	if w.err != nil {
		return "", fmt.Errorf("write monthly sheet: %w", w.err)
	}
	return wb.save(f, r.Period.String())
}

// SaveAnnual writes the twelve month grid plus a total row.
func (wb *Workbook) SaveAnnual(r core.AnnualReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return "", err
	}
	if err := f.SetSheetName("Sheet1", annualSheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	w := &sheetWriter{f: f, sheet: annualSheet}
	w.width("A", 16)
	for _, col := range []string{"B", "C", "D"} {
		w.width(col, 18)
	}
	w.width("E", 12)

	w.set("A1", fmt.Sprintf("Reporte Anual %d", r.Year))
	w.merge("A1", "E1")
	w.style("A1", "E1", st.title)

	for i, h := range []string{"Mes", "Ingresos", "Gastos", "Utilidad", "Margen"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		w.set(cell, h)
	}
	w.style("A3", "E3", st.header)

	n := 4
	for _, m := range r.Months {
		w.summaryRow(n, core.MonthName(m.Period.Month), m.TotalIncome, m.TotalExpenses, m.NetProfit, m.Margin, st.currency, st.percent)
		n++
	}
	w.summaryRow(n, "TOTAL", r.TotalIncome, r.TotalExpenses, r.NetProfit, r.Margin, st.total, st.percent)
	w.style(fmt.Sprintf("D%d", n), fmt.Sprintf("D%d", n), st.highlight)

	if w.err != nil {
		return "", fmt.Errorf("write annual sheet: %w", w.err)
	}
	return wb.save(f, fmt.Sprintf("%d", r.Year))
}

func (w *sheetWriter) summaryRow(n int, label string, income, expenses, net, margin decimal.Decimal, amountStyle, percentStyle int) {
	w.set(fmt.Sprintf("A%d", n), label)
	w.set(fmt.Sprintf("B%d", n), income)
	w.set(fmt.Sprintf("C%d", n), expenses)
	w.set(fmt.Sprintf("D%d", n), net)
	w.set(fmt.Sprintf("E%d", n), margin)
	w.style(fmt.Sprintf("B%d", n), fmt.Sprintf("D%d", n), amountStyle)
	w.style(fmt.Sprintf("E%d", n), fmt.Sprintf("E%d", n), percentStyle)
}

func (wb *Workbook) save(f *excelize.File, period string) (string, error) {
	if err := os.MkdirAll(wb.dir, 0755); err != nil {
		wb.logger.Error("Cannot create report directory", log.FieldPath, wb.dir, log.FieldError, err)
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(wb.dir, FileName(period, wb.now()))
	if err := f.SaveAs(path); err != nil {
		wb.logger.Error("Cannot save workbook", log.FieldPath, path, log.FieldError, err)
		return "", fmt.Errorf("save workbook: %w", err)
	}

	wb.logger.Info("Workbook saved", log.FieldOperation, log.OpExport, log.FieldPath, path)
	return path, nil
}
