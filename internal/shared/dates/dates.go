// Package dates holds the date conventions shared across the service: the
// register's day-month-year input formats and day-granularity comparisons.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Input formats accepted for register dates.
var dmyFormats = []string{"02/01/2006", "02-01-2006"}

// ParseDMY parses DD/MM/YYYY or DD-MM-YYYY.
func ParseDMY(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, f := range dmyFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY or DD-MM-YYYY", s)
}

// FormatDMY renders a date as DD/MM/YYYY, the register's display format.
func FormatDMY(t time.Time) string {
	return t.Format("02/01/2006")
}

// Day collapses a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween is the whole number of calendar days from `from` to `to`,
// negative when `to` is in the past.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// AfterDay reports whether a falls on a later calendar date than b.
func AfterDay(a, b time.Time) bool {
	return Day(a).After(Day(b))
}

// BeforeDay reports whether a falls on an earlier calendar date than b.
func BeforeDay(a, b time.Time) bool {
	return Day(a).Before(Day(b))
}
