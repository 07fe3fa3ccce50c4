// Package period models the calendar billing period.
//
// Every path that buckets usage by month (invoice generation, the monthly
// drill-down stats) goes through the same half-open range produced here, so
// the two can never disagree on month boundaries.
package period

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMonth = errors.New("invalid_month")
	ErrInvalidYear  = errors.New("invalid_year")
)

// Month is one calendar (year, month) billing period.
type Month struct {
	Year  int
	Month time.Month
}

// New validates and builds a billing month. The year floor is a separate,
// configurable check owned by the invoice service; here only month range and
// a sane year are enforced.
func New(year, month int) (Month, error) {
	if month < 1 || month > 12 {
		return Month{}, ErrInvalidMonth
	}
	if year < 1 {
		return Month{}, ErrInvalidYear
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month in UTC. The range is
// half-open: [Start, End). Variable month lengths fall out of time.Date's
// normalization.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && t.Before(m.End())
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
