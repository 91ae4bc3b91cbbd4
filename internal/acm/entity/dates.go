package entity

import (
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

// Thin aliases over the shared day-granularity helpers so the status
// functions read tersely. All day math lives in internal/shared/dates.

func daysBetween(from, to time.Time) int {
	return dates.DaysBetween(from, to)
}

func sameDay(a, b time.Time) bool {
	return dates.Day(a).Equal(dates.Day(b))
}
