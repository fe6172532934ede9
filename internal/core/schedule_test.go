package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextRecurringDate(t *testing.T) {
	cases := []struct {
		name     string
		in       time.Time
		interval RecurringInterval
		want     time.Time
	}{
		{"daily", date(2024, time.March, 15), IntervalDaily, date(2024, time.March, 16)},
		{"daily across month end", date(2024, time.January, 31), IntervalDaily, date(2024, time.February, 1)},
		{"weekly", date(2024, time.March, 15), IntervalWeekly, date(2024, time.March, 22)},
		{"weekly across year end", date(2024, time.December, 30), IntervalWeekly, date(2025, time.January, 6)},
		{"monthly", date(2024, time.March, 15), IntervalMonthly, date(2024, time.April, 15)},
		// AddDate normalizes overflow: Jan 31 + 1 month = Feb 31 = Mar 2 (2024 is a leap year).
		{"monthly overflow leap year", date(2024, time.January, 31), IntervalMonthly, date(2024, time.March, 2)},
		{"monthly overflow non-leap year", date(2025, time.January, 31), IntervalMonthly, date(2025, time.March, 3)},
		{"yearly", date(2024, time.March, 15), IntervalYearly, date(2025, time.March, 15)},
		// Feb 29 + 1 year = Feb 29 2025, which normalizes to Mar 1.
		{"yearly from leap day", date(2024, time.February, 29), IntervalYearly, date(2025, time.March, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextRecurringDate(tc.in, tc.interval)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNextRecurringDateRejectsUnknownInterval(t *testing.T) {
	_, err := NextRecurringDate(date(2024, time.March, 15), RecurringInterval("FORTNIGHTLY"))
	if err == nil {
		t.Fatal("expected error for unknown interval")
	}
}

func TestNextRecurringDatePreservesTimeOfDay(t *testing.T) {
	in := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
	got, err := NextRecurringDate(in, IntervalDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("time of day not preserved: %v", got)
	}
}
