package core

import (
	"fmt"
	"time"
)

// Period is one calendar month. Its window is the half-open interval
// [first instant of the month, first instant of the next month).
type Period struct {
	Year  int
	Month int // 1-12
}

// CurrentPeriod returns the period containing now, in UTC.
func CurrentPeriod(now time.Time) Period {
	now = now.UTC()
	return Period{Year: now.Year(), Month: int(now.Month())}
}

// PeriodOrCurrent defaults unset year/month to the current period and
// validates anything that was supplied. A partially specified period
// (year without month or vice versa) fills the missing half from now.
func PeriodOrCurrent(year, month int, now time.Time) (Period, error) {
	cur := CurrentPeriod(now)
	if year == 0 {
		year = cur.Year
	}
	if month == 0 {
		month = cur.Month
	}
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < 1970 || p.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

// Window returns the period boundaries. The end is exclusive: a transaction
// dated exactly at the first instant of the next month belongs to that month.
func (p Period) Window() (start, end time.Time) {
	start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the period window.
func (p Period) Contains(t time.Time) bool {
	start, end := p.Window()
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

// Previous returns the preceding calendar month.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
