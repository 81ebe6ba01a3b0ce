// Package schedule implements the recurring schedule generation and
// carry-forward reconciliation core: pure functions with no persistence or
// shared state, safe to run concurrently for different trainers.
//
// Weekday convention throughout: 0 = Sunday, 1 = Monday, ..., 6 = Saturday,
// matching time.Weekday. Iteration order is Monday-first [1,2,3,4,5,6,0] so
// generated schedules read "week starts Monday".
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesOfDay parses a "HH:MM" wall-clock string into its minute offset
// from midnight. Returns false for anything that is not a valid clock value;
// callers skip malformed intervals instead of erroring.
func MinutesOfDay(hhmm string) (int, bool) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, false
	}
	return h*60 + m, true
}

// Clock formats a minute offset back into "HH:MM".
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ISODate renders the calendar date of t as "YYYY-MM-DD" in t's own
// location, so the date never drifts across a UTC conversion.
func ISODate(t time.Time) string {
	return StartOfDay(t).Format("2006-01-02")
}

// AtClock places a minute-of-day offset onto a calendar day.
// Offsets past midnight (e.g. 24:00) normalize into the next day.
func AtClock(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// copyTimeOfDay keeps from's wall-clock time but moves it onto day's date.
func copyTimeOfDay(from, day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), from.Hour(), from.Minute(), 0, 0, day.Location())
}

// nextDateWithWeekday returns midnight of the first date strictly after day
// that falls on the given weekday (0=Sunday..6=Saturday).
func nextDateWithWeekday(day time.Time, weekday int) time.Time {
	d := StartOfDay(day)
	for {
		d = d.AddDate(0, 0, 1)
		if int(d.Weekday()) == weekday {
			return d
		}
	}
}
