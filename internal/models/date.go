package models

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateRange is an inclusive span of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t lies within the range
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// DateOnly drops the clock part of t, keeping its calendar date in t's own
// location, and returns that date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return DateOnly(t).Format(DateLayout)
}

// MonthWindow is the current month window: the first calendar day of asOf's
// month through asOf, inclusive.
func MonthWindow(asOf time.Time) DateRange {
	day := DateOnly(asOf)
	return DateRange{
		Start: now.With(day).BeginningOfMonth(),
		End:   day,
	}
}

// TrendWindow spans days calendar days ending on asOf, inclusive.
// Values below one are treated as one.
func TrendWindow(asOf time.Time, days int) DateRange {
	if days < 1 {
		days = 1
	}
	day := DateOnly(asOf)
	return DateRange{
		Start: day.AddDate(0, 0, -(days - 1)),
		End:   day,
	}
}
