package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"agencia/internal/core"
)

// Store is an in-process data source for the report backends.
type Store struct {
	mu            sync.Mutex
	cats          []core.ExpenseCategory
	sales         []core.Sale
	domestic      []core.TripPayment
	international []core.TripPayment
	expenses      []core.OperatingExpense
}

func New(cats ...string) *Store {
	s := &Store{}
	for _, name := range dedupe(cats) {
		s.cats = append(s.cats, core.ExpenseCategory{Name: name})
	}
	return s
}

// NewFromFiles seeds category names from <base>/seed_categories.txt.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = []string{"Renta", "Nómina", "Servicios", "Publicidad", "Otros"}
	}
	return New(cats...)
}

func (s *Store) AddSale(sale core.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
}

func (s *Store) AddDomesticPayment(p core.TripPayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domestic = append(s.domestic, p)
}

// AddInternationalPayment records a payment in USD.
func (s *Store) AddInternationalPayment(p core.TripPayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.international = append(s.international, p)
}

func (s *Store) AddExpense(e core.OperatingExpense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
}

func (s *Store) Sales(_ context.Context, year int) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Sale
	for _, sale := range s.sales {
		if sale.Start.Year() == year {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *Store) DomesticTripPayments(_ context.Context, year int) ([]core.TripPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paymentsIn(s.domestic, year), nil
}

func (s *Store) InternationalTripPayments(_ context.Context, year int) ([]core.TripPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return paymentsIn(s.international, year), nil
}

func (s *Store) OperatingExpenses(_ context.Context, p core.Period) ([]core.OperatingExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.OperatingExpense
	for _, e := range s.expenses {
		if e.Month == p.Month && e.Year == p.Year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ExpenseCategories(_ context.Context) ([]core.ExpenseCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExpenseCategory(nil), s.cats...), nil
}

func paymentsIn(payments []core.TripPayment, year int) []core.TripPayment {
	var out []core.TripPayment
	for _, p := range payments {
		if p.Departure.Year() == year {
			out = append(out, p)
		}
	}
	return out
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe keeps the first occurrence of each non-blank value, in input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
