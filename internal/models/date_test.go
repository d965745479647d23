package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name  string
		asOf  time.Time
		start time.Time
		end   time.Time
	}{
		{name: "mid month", asOf: time.Date(2024, 5, 17, 15, 30, 0, 0, time.UTC), start: date(2024, 5, 1), end: date(2024, 5, 17)},
		{name: "first of month", asOf: date(2024, 5, 1), start: date(2024, 5, 1), end: date(2024, 5, 1)},
		{name: "leap day", asOf: date(2024, 2, 29), start: date(2024, 2, 1), end: date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := MonthWindow(tt.asOf)
			assert.Equal(t, tt.start, window.Start)
			assert.Equal(t, tt.end, window.End)
		})
	}
}

func TestMonthWindow_UsesCalendarDateOfLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-05-31 20:00 UTC is already June 1st in UTC+10
	asOf := time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC).In(loc)

	window := MonthWindow(asOf)

	assert.Equal(t, date(2024, 6, 1), window.Start)
	assert.Equal(t, date(2024, 6, 1), window.End)
}

func TestTrendWindow(t *testing.T) {
	window := TrendWindow(date(2024, 3, 30), 30)
	assert.Equal(t, date(2024, 3, 1), window.Start)
	assert.Equal(t, date(2024, 3, 30), window.End)

	single := TrendWindow(date(2024, 3, 30), 0)
	assert.Equal(t, single.Start, single.End)
}

func TestDateRange_Contains(t *testing.T) {
	window := DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 31)}

	assert.True(t, window.Contains(date(2024, 3, 1)))
	assert.True(t, window.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, window.Contains(date(2024, 4, 1)))
	assert.False(t, window.Contains(date(2024, 2, 29)))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-09")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 9), parsed)
	assert.Equal(t, "2024-01-09", FormatDate(parsed))

	_, err = ParseDate("09/01/2024")
	assert.Error(t, err)
}
