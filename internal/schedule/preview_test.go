package schedule

import (
	"testing"
	"time"
)

func mwfHours(start, end string) DayHours {
	return DayHours{
		1: {{Start: start, End: end}},
		3: {{Start: start, End: end}},
		5: {{Start: start, End: end}},
	}
}

func TestBuildPreviewMonWedFri(t *testing.T) {
	plan := PackagePlan{
		TotalSessions:      6,
		SessionDurationMin: 60,
		Patterns:           []Pattern{{1, 3, 5}},
	}
	slots := BuildPreview(plan, mwfHours("07:00", "08:00"), 0, monday)

	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6", len(slots))
	}
	for i, s := range slots {
		if s.Start != "07:00" || s.End != "08:00" {
			t.Errorf("slot %d has times %s-%s, want 07:00-08:00", i, s.Start, s.End)
		}
		if s.Origin != OriginOriginal {
			t.Errorf("slot %d origin = %q, want original", i, s.Origin)
		}
		if !(Pattern{1, 3, 5}).Contains(int(s.StartTime.Weekday())) {
			t.Errorf("slot %d on weekday %d, not in pattern", i, s.StartTime.Weekday())
		}
	}
	if slots[0].Date != "2025-03-03" || slots[5].Date != "2025-03-14" {
		t.Errorf("date span %s..%s, want 2025-03-03..2025-03-14", slots[0].Date, slots[5].Date)
	}
}

func TestBuildPreviewSlicesWideIntervals(t *testing.T) {
	plan := PackagePlan{
		TotalSessions:      3,
		SessionDurationMin: 60,
		Patterns:           []Pattern{{1}},
	}
	hours := DayHours{1: {{Start: "07:00", End: "09:00"}}}
	slots := BuildPreview(plan, hours, 0, monday)

	// 3 Mondays, each carrying two back-to-back hour blocks.
	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6", len(slots))
	}
	if slots[0].Start != "07:00" || slots[1].Start != "08:00" {
		t.Errorf("first day blocks start at %s and %s, want 07:00 and 08:00", slots[0].Start, slots[1].Start)
	}
}

func TestBuildPreviewShortfallOnMissingHours(t *testing.T) {
	// Pattern includes Sunday but the trainer never works Sundays: the Sunday
	// occurrences contribute nothing and the total stays short.
	plan := PackagePlan{
		TotalSessions:      4,
		SessionDurationMin: 60,
		Patterns:           []Pattern{{1, 0}},
	}
	hours := DayHours{1: {{Start: "10:00", End: "11:00"}}}
	slots := BuildPreview(plan, hours, 0, monday)

	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2 (Sundays skipped, range not extended)", len(slots))
	}
	for _, s := range slots {
		if s.StartTime.Weekday() != time.Monday {
			t.Errorf("slot on %v, want Monday only", s.StartTime.Weekday())
		}
	}
}

func TestBuildPreviewBreakBetweenSessions(t *testing.T) {
	plan := PackagePlan{
		TotalSessions:      1,
		SessionDurationMin: 60,
		Patterns:           []Pattern{{1}},
	}
	hours := DayHours{1: {{Start: "09:00", End: "12:00"}}}
	slots := BuildPreview(plan, hours, 30, monday)

	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0].End != "10:00" || slots[1].Start != "10:30" {
		t.Errorf("blocks %s-%s then %s-%s, want a 30 minute gap",
			slots[0].Start, slots[0].End, slots[1].Start, slots[1].End)
	}
}

func TestBuildPreviewSortedMonotonic(t *testing.T) {
	plan := PackagePlan{
		TotalSessions:      5,
		SessionDurationMin: 45,
		Patterns:           []Pattern{{1, 3, 5}, {2}},
	}
	hours := DayHours{
		1: {{Start: "07:00", End: "09:00"}},
		2: {{Start: "18:00", End: "20:00"}},
		3: {{Start: "07:00", End: "09:00"}},
		5: {{Start: "07:00", End: "09:00"}},
	}
	slots := BuildPreview(plan, hours, 0, monday)
	for i := 1; i < len(slots); i++ {
		if slots[i].StartTime.Before(slots[i-1].StartTime) {
			t.Fatalf("slot %d at %v precedes slot %d at %v", i, slots[i].StartTime, i-1, slots[i-1].StartTime)
		}
	}
}

func TestBuildPreviewMalformedIntervalSkipped(t *testing.T) {
	plan := PackagePlan{
		TotalSessions:      1,
		SessionDurationMin: 60,
		Patterns:           []Pattern{{1}},
	}
	hours := DayHours{1: {
		{Start: "garbage", End: "10:00"},
		{Start: "07:00", End: "08:00"},
	}}
	slots := BuildPreview(plan, hours, 0, monday)
	if len(slots) != 1 {
		t.Fatalf("got %d slots, want 1 (malformed interval dropped)", len(slots))
	}
	if slots[0].Start != "07:00" {
		t.Errorf("surviving slot starts at %s, want 07:00", slots[0].Start)
	}
}

func TestBuildPreviewEmptyPlan(t *testing.T) {
	slots := BuildPreview(PackagePlan{TotalSessions: 5, SessionDurationMin: 60}, mwfHours("07:00", "09:00"), 0, monday)
	if len(slots) != 0 {
		t.Errorf("no patterns: got %d slots, want 0", len(slots))
	}
}
