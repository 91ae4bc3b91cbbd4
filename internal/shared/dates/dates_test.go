package dates

import (
	"testing"
	"time"
)

func TestParseDMY(t *testing.T) {
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"15/03/2025", "15-03-2025"} {
		got, err := ParseDMY(raw)
		if err != nil {
			t.Fatalf("ParseDMY(%q) failed: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseDMY(%q) = %v, want %v", raw, got, want)
		}
	}

	for _, raw := range []string{"2025-03-15", "15.03.2025", "32/01/2025", "", "soon"} {
		if _, err := ParseDMY(raw); err == nil {
			t.Errorf("ParseDMY(%q) should fail", raw)
		}
	}
}

func TestFormatDMY(t *testing.T) {
	d := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatDMY(d); got != "05/03/2025" {
		t.Errorf("FormatDMY = %q, want 05/03/2025", got)
	}
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)
	to := time.Date(2025, 3, 16, 0, 1, 0, 0, time.UTC)
	// Day granularity: times of day never matter.
	if got := DaysBetween(from, to); got != 1 {
		t.Errorf("DaysBetween = %d, want 1", got)
	}
	if got := DaysBetween(to, from); got != -1 {
		t.Errorf("DaysBetween reversed = %d, want -1", got)
	}
	if got := DaysBetween(from, from); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}

func TestAfterBeforeDay(t *testing.T) {
	morning := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 15, 20, 0, 0, 0, time.UTC)
	next := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	if AfterDay(evening, morning) || BeforeDay(morning, evening) {
		t.Error("same calendar day should be neither after nor before")
	}
	if !AfterDay(next, evening) {
		t.Error("next day should be after")
	}
	if !BeforeDay(evening, next) {
		t.Error("previous day should be before")
	}
}
