package payroll

import (
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
)

// Period is a payroll month in YYYY-MM form
type Period string

// NewPeriod builds a period from year and month
func NewPeriod(year int, month time.Month) Period {
	return Period(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParsePeriod validates and normalizes a YYYY-MM string
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", shared.NewDomainError("INVALID_PERIOD", "Period must be in YYYY-MM format")
	}
	return NewPeriod(t.Year(), t.Month()), nil
}

// String returns the YYYY-MM form
func (p Period) String() string {
	return string(p)
}

func (p Period) time() time.Time {
	t, _ := time.Parse("2006-01", string(p))
	return t
}

// Start returns the first instant of the period
func (p Period) Start() time.Time {
	return p.time()
}

// End returns the last day of the period at midnight
func (p Period) End() time.Time {
	return p.time().AddDate(0, 1, -1)
}

// Previous returns the preceding month
func (p Period) Previous() Period {
	t := p.time().AddDate(0, -1, 0)
	return NewPeriod(t.Year(), t.Month())
}

// Next returns the following month
func (p Period) Next() Period {
	t := p.time().AddDate(0, 1, 0)
	return NewPeriod(t.Year(), t.Month())
}
