package schedule

import (
	"sort"
	"time"
)

// Origin says whether a preview slot sits at its originally generated time or
// was relocated by carry-forward reconciliation.
type Origin string

const (
	OriginOriginal Origin = "original"
	OriginCarried  Origin = "carried"
)

// PreviewSlot is one candidate bookable slot, in memory only.
// Status is empty for freshly generated slots; reconciliation of previously
// persisted lists carries the stored status through here.
type PreviewSlot struct {
	Date      string    `json:"date"`  // local ISO date, "YYYY-MM-DD"
	Start     string    `json:"start"` // "HH:MM"
	End       string    `json:"end"`
	Pattern   Pattern   `json:"pattern"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status,omitempty"`
	Origin    Origin    `json:"origin"`
}

// Interval mirrors a trainer's working interval as "HH:MM" strings.
type Interval struct {
	Start string
	End   string
}

// DayHours maps a weekday (0=Sunday..6=Saturday) to the trainer's open
// intervals on that day.
type DayHours map[int][]Interval

// PackagePlan is the slice of a package the scheduler needs.
type PackagePlan struct {
	TotalSessions      int
	SessionDurationMin int
	Patterns           []Pattern
}

// BuildPreview expands every pattern of the plan into concrete slots:
// totalSessions occurrence dates per pattern, each date's working intervals
// sliced into session blocks. A date whose weekday has no working hours
// contributes zero slots, which can leave the total short of totalSessions;
// the range is deliberately not extended to compensate (the shortfall is
// surfaced to the trainer UI instead). Result is sorted by absolute start.
func BuildPreview(plan PackagePlan, hours DayHours, breakMin int, base time.Time) []PreviewSlot {
	var preview []PreviewSlot

	for _, pattern := range plan.Patterns {
		dates := OccurrenceDates(base, pattern, plan.TotalSessions)

		for _, date := range dates {
			intervals := hours[int(date.Weekday())]
			if len(intervals) == 0 {
				continue
			}

			for _, iv := range intervals {
				startMin, ok := MinutesOfDay(iv.Start)
				if !ok {
					continue
				}
				endMin, ok := MinutesOfDay(iv.End)
				if !ok {
					continue
				}

				for _, b := range SliceInterval(startMin, endMin, plan.SessionDurationMin, breakMin) {
					preview = append(preview, PreviewSlot{
						Date:      ISODate(date),
						Start:     Clock(b.StartMin),
						End:       Clock(b.EndMin),
						Pattern:   pattern,
						StartTime: AtClock(date, b.StartMin),
						EndTime:   AtClock(date, b.EndMin),
						Origin:    OriginOriginal,
					})
				}
			}
		}
	}

	sort.SliceStable(preview, func(i, j int) bool {
		return preview[i].StartTime.Before(preview[j].StartTime)
	})
	return preview
}
