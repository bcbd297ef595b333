package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the fixed text encoding used by every date column in the
// agency database (day/month/year).
const DateLayout = "02/01/2006"

const (
	MinYear = 1900
	MaxYear = 9999
)

type (
	Date struct {
		time.Time
	}

	// Sale is a domestic Riviera Maya booking.
	Sale struct {
		Start   Date
		Paid    decimal.Decimal
		Blocked bool // es_bloqueo
		Group   bool // es_grupo
	}

	// TripPayment is one client payment joined to the trip it pays for.
	// Amount is in local currency for domestic trips and USD for international ones.
	TripPayment struct {
		Departure Date
		Amount    decimal.Decimal
	}

	OperatingExpense struct {
		Category string
		Amount   decimal.Decimal
		Month    int
		Year     int
	}

	// ExpenseCategory is reference data for the UI; it never enters the math.
	ExpenseCategory struct {
		Name        string
		Description string
		Color       string
		Icon        string
	}

	// Period identifies a calendar month.
	Period struct {
		Year  int
		Month int
	}

	// MonthRange is an inclusive range of months inside one year.
	MonthRange struct {
		Year  int
		Start int
		End   int
	}
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidYear  = errors.New("invalid year")
	ErrInvalidRange = errors.New("invalid month range")
)

// ParseDate parses a DD/MM/YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return Date{Time: t}, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String renders the date back in the storage layout.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// In reports whether the date falls inside the period.
func (d Date) In(p Period) bool {
	return !d.IsZero() && d.Year() == p.Year && d.Month() == p.Month
}

func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d (must be 1-12)", ErrInvalidMonth, month)
	}
	return nil
}

func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidYear, year, MinYear, MaxYear)
	}
	return nil
}

func (p Period) Validate() error {
	if err := ValidateMonth(p.Month); err != nil {
		return err
	}
	return ValidateYear(p.Year)
}

// String renders the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (r MonthRange) Validate() error {
	if err := ValidateYear(r.Year); err != nil {
		return err
	}
	if r.Start < 1 || r.End > 12 || r.Start > r.End {
		return fmt.Errorf("%w: %d-%d (need 1 <= start <= end <= 12)", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Periods expands the range into its months, in order.
func (r MonthRange) Periods() []Period {
	out := make([]Period, 0, r.End-r.Start+1)
	for m := r.Start; m <= r.End; m++ {
		out = append(out, Period{Year: r.Year, Month: m})
	}
	return out
}
