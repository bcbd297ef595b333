// Package shell is the interactive report menu.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"agencia/internal/core"
	"agencia/internal/log"
	"agencia/internal/presenter"
)

var errEOF = errors.New("end of input")

type (
	Reports interface {
		Monthly(ctx context.Context, p core.Period) (core.MonthlyReport, error)
		Annual(ctx context.Context, year int) (core.AnnualReport, error)
		Comparative(ctx context.Context, r core.MonthRange) (core.Comparison, error)
		Categories(ctx context.Context) ([]core.ExpenseCategory, error)
	}

	Exporter interface {
		SaveMonthly(r core.MonthlyReport) (string, error)
		SaveAnnual(r core.AnnualReport) (string, error)
	}
)

type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	reports  Reports
	exporter Exporter
	console  *presenter.Console
	logger   *log.Logger
}

func New(in io.Reader, out io.Writer, reports Reports, exporter Exporter, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.Discard()
	}
	return &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		reports:  reports,
		exporter: exporter,
		console:  presenter.NewConsole(out),
		logger:   logger.WithComponent(log.ComponentShell),
	}
}

const menu = `
==== AGENCIA - REPORTES FINANCIEROS ====
1. Reporte mensual
2. Reporte anual
3. Comparativo de meses
4. Exportar reporte mensual a Excel
5. Exportar reporte anual a Excel
6. Categorías de gastos
0. Salir
`

// Run loops over the menu until the user exits, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		choice, err := s.prompt("Opción: ")
		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read menu choice: %w", err)
		}

		switch choice {
		case "0":
			fmt.Fprintln(s.out, "Hasta luego.")
			return nil
		case "1":
			err = s.monthly(ctx, false)
		case "2":
			err = s.annual(ctx, false)
		case "3":
			err = s.comparative(ctx)
		case "4":
			err = s.monthly(ctx, true)
		case "5":
			err = s.annual(ctx, true)
		case "6":
			err = s.categories(ctx)
		default:
			fmt.Fprintf(s.out, "Opción no válida: %q\n", choice)
			continue
		}

		if errors.Is(err, errEOF) {
			return nil
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Menu action failed", log.FieldOperation, choice, log.FieldError, err)
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *Shell) monthly(ctx context.Context, export bool) error {
	month, err := s.promptInt("Mes (1-12): ")
	if err != nil {
		return err
	}
	year, err := s.promptInt("Año: ")
	if err != nil {
		return err
	}
	p := core.Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return err
	}

	report, err := s.reports.Monthly(ctx, p)
	if err != nil {
		return err
	}
	if !export {
		s.console.Monthly(report)
		return nil
	}
	s.console.Saved(s.exporter.SaveMonthly(report))
	return nil
}

func (s *Shell) annual(ctx context.Context, export bool) error {
	year, err := s.promptInt("Año: ")
	if err != nil {
		return err
	}
	if err := core.ValidateYear(year); err != nil {
		return err
	}

	report, err := s.reports.Annual(ctx, year)
	if err != nil {
		return err
	}
	if !export {
		s.console.Annual(report)
		return nil
	}
	s.console.Saved(s.exporter.SaveAnnual(report))
	return nil
}

func (s *Shell) comparative(ctx context.Context) error {
	year, err := s.promptInt("Año: ")
	if err != nil {
		return err
	}
	start, err := s.promptInt("Mes inicial (1-12): ")
	if err != nil {
		return err
	}
	end, err := s.promptInt("Mes final (1-12): ")
	if err != nil {
		return err
	}
	r := core.MonthRange{Year: year, Start: start, End: end}
	if err := r.Validate(); err != nil {
		return err
	}

	cmp, err := s.reports.Comparative(ctx, r)
	if err != nil {
		return err
	}
	s.console.Comparative(cmp)
	return nil
}

func (s *Shell) categories(ctx context.Context) error {
	cats, err := s.reports.Categories(ctx)
	if err != nil {
		return err
	}
	s.console.Categories(cats)
	return nil
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) promptInt(label string) (int, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("se esperaba un número, se recibió %q", raw)
	}
	return n, nil
}
