package core

import "time"

// NextRecurringDate computes the next due date of a recurring transaction
// from its current date and interval.
//
// Monthly and yearly steps use time.AddDate, which normalizes calendar
// overflow instead of clamping to month end: Jan 31 + 1 month lands on
// Mar 2 in a leap year (Mar 3 otherwise), and Feb 29 + 1 year lands on
// Mar 1. This normalization is deliberate, relied upon by callers, and
// pinned by the fixtures in schedule_test.go.
//
// An unrecognized interval is rejected rather than silently returning
// the input date; create/update validation makes that unreachable in
// practice.
func NextRecurringDate(date time.Time, interval RecurringInterval) (time.Time, error) {
	switch interval {
	case IntervalDaily:
		return date.AddDate(0, 0, 1), nil
	case IntervalWeekly:
		return date.AddDate(0, 0, 7), nil
	case IntervalMonthly:
		return date.AddDate(0, 1, 0), nil
	case IntervalYearly:
		return date.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, ErrInvalidInterval
	}
}
