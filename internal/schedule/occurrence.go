package schedule

import "time"

// OccurrenceDates enumerates exactly count calendar dates (midnight, in
// base's location) matching the pattern, searching forward from base's day
// inclusive.
//
// The walk is week-anchored: for the current week anchor, each pattern
// weekday (Monday-first order) maps to the date at forward-only offset
// (weekday - anchorWeekday + 7) % 7, then the anchor advances by exactly
// seven days. Anchoring by whole weeks keeps the weekly rhythm: no date is
// skipped or produced twice.
//
// An empty pattern or count <= 0 yields nil. A non-empty pattern contributes
// at least one date per week, so the loop is additionally capped defensively
// at count+1 weeks.
func OccurrenceDates(base time.Time, pattern Pattern, count int) []time.Time {
	if len(pattern) == 0 || count <= 0 {
		return nil
	}

	start := StartOfDay(base)
	cursor := start
	dates := make([]time.Time, 0, count)

	for week := 0; len(dates) < count && week <= count; week++ {
		for _, weekday := range pattern {
			diff := (weekday - int(cursor.Weekday()) + 7) % 7
			next := cursor.AddDate(0, 0, diff)
			if !next.Before(start) {
				dates = append(dates, next)
			}
			if len(dates) >= count {
				break
			}
		}
		cursor = cursor.AddDate(0, 0, 7)
	}

	return dates
}
