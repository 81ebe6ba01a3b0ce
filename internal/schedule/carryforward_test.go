package schedule

import (
	"testing"
	"time"
)

func previewSlot(start time.Time, durMin int, status string) PreviewSlot {
	end := start.Add(time.Duration(durMin) * time.Minute)
	return PreviewSlot{
		Date:      ISODate(start),
		Start:     Clock(start.Hour()*60 + start.Minute()),
		End:       Clock(end.Hour()*60 + end.Minute()),
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Origin:    OriginOriginal,
	}
}

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestCarryForwardMovesExpiredOpenSlot(t *testing.T) {
	// Mon 3/3 expired open, Fri 3/7 still ahead. Clock is Wed noon.
	slots := []PreviewSlot{
		previewSlot(at(3, 7), 60, "OPEN"), // Monday
		previewSlot(at(7, 7), 60, "OPEN"), // Friday
	}
	now := at(5, 12) // Wednesday

	out := CarryForward(slots, now, false)

	if len(out) != 2 {
		t.Fatalf("got %d slots, want 2 (count conserved)", len(out))
	}
	// Kept Friday slot first, carried Monday slot relocated to Mon 3/10:
	// strictly after the Friday anchor, same time-of-day.
	if !out[0].StartTime.Equal(at(7, 7)) {
		t.Errorf("kept slot at %v, want Fri 07:00 untouched", out[0].StartTime)
	}
	carried := out[1]
	if !carried.StartTime.Equal(at(10, 7)) {
		t.Errorf("carried slot at %v, want Mon 2025-03-10 07:00", carried.StartTime)
	}
	if carried.Origin != OriginCarried {
		t.Errorf("carried origin = %q, want carried", carried.Origin)
	}
	if carried.Date != "2025-03-10" || carried.Start != "07:00" {
		t.Errorf("carried rendered as %s %s, want 2025-03-10 07:00", carried.Date, carried.Start)
	}
	if got := carried.EndTime.Sub(carried.StartTime); got != time.Hour {
		t.Errorf("carried duration %v, want 1h", got)
	}
}

func TestCarryForwardAnchorsOnNowWhenNothingKept(t *testing.T) {
	slots := []PreviewSlot{previewSlot(at(3, 7), 60, "OPEN")} // Monday
	now := at(5, 12)                                          // Wednesday

	out := CarryForward(slots, now, false)
	if len(out) != 1 {
		t.Fatalf("got %d slots, want 1", len(out))
	}
	// Next Monday strictly after Wednesday.
	if !out[0].StartTime.Equal(at(10, 7)) {
		t.Errorf("carried to %v, want Mon 2025-03-10 07:00", out[0].StartTime)
	}
}

func TestCarryForwardNeverMovesClaimedSlots(t *testing.T) {
	booked := previewSlot(at(3, 7), 60, "BOOKED")
	held := previewSlot(at(3, 9), 60, "HELD")
	blocked := previewSlot(at(3, 11), 60, "BLOCKED")
	now := at(5, 12)

	out := CarryForward([]PreviewSlot{booked, held, blocked}, now, false)
	if len(out) != 3 {
		t.Fatalf("got %d slots, want 3", len(out))
	}
	for i, s := range out {
		if s.Origin != OriginOriginal {
			t.Errorf("slot %d (%s) was moved, claimed slots must stay put", i, s.Status)
		}
	}
}

func TestCarryForwardReservedForPackageIsCarried(t *testing.T) {
	slots := []PreviewSlot{previewSlot(at(3, 7), 60, "RESERVED_FOR_PACKAGE")}
	out := CarryForward(slots, at(5, 12), false)
	if out[0].Origin != OriginCarried {
		t.Error("RESERVED_FOR_PACKAGE counts as unclaimed and must be carried")
	}
}

func TestCarryForwardNoOpWhenNothingExpired(t *testing.T) {
	slots := []PreviewSlot{
		previewSlot(at(10, 7), 60, "OPEN"),
		previewSlot(at(12, 7), 60, ""),
	}
	now := at(5, 12)

	out := CarryForward(slots, now, false)
	if len(out) != 2 {
		t.Fatalf("got %d slots, want 2", len(out))
	}
	for i := range out {
		if out[i].Origin != OriginOriginal {
			t.Errorf("slot %d moved without being expired", i)
		}
	}
}

func TestCarryForwardSlotEndingExactlyNowIsPast(t *testing.T) {
	now := at(3, 8) // slot ends 08:00, now is 08:00
	out := CarryForward([]PreviewSlot{previewSlot(at(3, 7), 60, "OPEN")}, now, false)
	if out[0].Origin != OriginCarried {
		t.Error("a slot ending exactly at now must count as expired")
	}
}

func TestCarryForwardSpreadWeekly(t *testing.T) {
	// Two expired Monday slots; spread mode fans them onto consecutive Mondays.
	slots := []PreviewSlot{
		previewSlot(at(3, 7), 60, "OPEN"),
		previewSlot(at(3, 8), 60, "OPEN"),
	}
	now := at(5, 12)

	out := CarryForward(slots, now, true)
	if len(out) != 2 {
		t.Fatalf("got %d slots, want 2", len(out))
	}
	if !out[0].StartTime.Equal(at(10, 7)) {
		t.Errorf("first carried at %v, want Mon 3/10 07:00", out[0].StartTime)
	}
	if !out[1].StartTime.Equal(at(17, 8)) {
		t.Errorf("second carried at %v, want Mon 3/17 08:00", out[1].StartTime)
	}
}

func TestCarryForwardSameDayStacksWithoutSpread(t *testing.T) {
	slots := []PreviewSlot{
		previewSlot(at(3, 7), 60, "OPEN"),
		previewSlot(at(3, 8), 60, "OPEN"),
	}
	out := CarryForward(slots, at(5, 12), false)

	if !out[0].StartTime.Equal(at(10, 7)) || !out[1].StartTime.Equal(at(10, 8)) {
		t.Errorf("carried to %v and %v, want both on Mon 3/10 at 07:00 and 08:00",
			out[0].StartTime, out[1].StartTime)
	}
}

func TestCarryForwardCountConserved(t *testing.T) {
	var slots []PreviewSlot
	for day := 3; day <= 14; day++ {
		status := "OPEN"
		if day%3 == 0 {
			status = "BOOKED"
		}
		slots = append(slots, previewSlot(at(day, 9), 45, status))
	}
	now := at(9, 0)

	out := CarryForward(slots, now, false)
	if len(out) != len(slots) {
		t.Fatalf("count changed: got %d, want %d", len(out), len(slots))
	}
	for i := 1; i < len(out); i++ {
		if out[i].StartTime.Before(out[i-1].StartTime) {
			t.Fatalf("result not sorted at index %d", i)
		}
	}
}

func TestCarryForwardEmptyInput(t *testing.T) {
	if out := CarryForward(nil, at(5, 12), false); len(out) != 0 {
		t.Errorf("got %d slots from empty input", len(out))
	}
}
