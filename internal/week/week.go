// Package week holds the calendar math for the weekly contribution cycle.
// Everything here is a pure function of the instant passed in; callers inject
// "now" so the rules stay deterministic and testable.
package week

import "time"

// LateFeeCents is charged when a contribution lands after the window closes.
const LateFeeCents int64 = 100000

// Bounds is a half-open-free week description: Start is Monday 00:00:00.000,
// End is Sunday 23:59:59.999 in the instant's location.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// Window is the Friday-Saturday slice of a week during which contributions
// are accepted.
type Window struct {
	Opens  time.Time
	Closes time.Time
}

// startOfDay truncates to midnight in t's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// WeekStart returns Monday 00:00 of the week containing now. A Sunday rolls
// back to the previous Monday rather than forward.
func WeekStart(now time.Time) time.Time {
	// Go counts Sunday as 0; shift so Monday is 0.
	offset := (int(now.Weekday()) + 6) % 7
	return startOfDay(now.AddDate(0, 0, -offset))
}

// WeekBounds returns the Monday-to-Sunday boundaries of the week containing
// now.
func WeekBounds(now time.Time) Bounds {
	start := WeekStart(now)
	return Bounds{
		Start: start,
		End:   endOfDay(start.AddDate(0, 0, 6)),
	}
}

// ContributionWindow returns the Friday 00:00 to Saturday 23:59:59.999 window
// of the week containing now.
func ContributionWindow(now time.Time) Window {
	start := WeekStart(now)
	return Window{
		Opens:  start.AddDate(0, 0, 4),
		Closes: endOfDay(start.AddDate(0, 0, 5)),
	}
}

// IsContributionWindowOpen reports whether now falls inside this week's
// Friday-Saturday contribution window.
func IsContributionWindowOpen(now time.Time) bool {
	w := ContributionWindow(now)
	return !now.Before(w.Opens) && !now.After(w.Closes)
}

// IsNotificationDay reports whether now is the Thursday reminder day.
func IsNotificationDay(now time.Time) bool {
	return now.Weekday() == time.Thursday
}

// ISOWeek returns the ISO 8601 year and week number for now.
func ISOWeek(now time.Time) (year, week int) {
	return now.ISOWeek()
}

// LateFee returns the flat late fee when paidAt is strictly after the
// contribution window's close, zero otherwise.
func LateFee(paidAt, windowCloses time.Time) int64 {
	if paidAt.After(windowCloses) {
		return LateFeeCents
	}
	return 0
}

// MissedWeeks counts whole weeks between ref and the start of the week
// containing now. Never negative. Used by enforcement to turn a last-payment
// timestamp into a missed-week count.
func MissedWeeks(ref, now time.Time) int {
	start := WeekStart(now)
	if !ref.Before(start) {
		return 0
	}
	weeks := int(start.Sub(ref) / (7 * 24 * time.Hour))
	if weeks < 0 {
		return 0
	}
	return weeks
}
