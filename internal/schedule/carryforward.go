package schedule

import (
	"sort"
	"time"
)

// slotIsOpen mirrors the unclaimed statuses: no status yet, OPEN, or
// RESERVED_FOR_PACKAGE. Anything else (BOOKED, HELD, BLOCKED) is claimed and
// never moved.
func slotIsOpen(s PreviewSlot) bool {
	return s.Status == "" || s.Status == "OPEN" || s.Status == "RESERVED_FOR_PACKAGE"
}

// CarryForward relocates slots that expired unclaimed (endTime <= now and
// still open) to the next future occurrence of their original weekday, so a
// paid session the student is owed never silently vanishes from the schedule.
//
// Kept slots (future, or past but claimed) stay untouched. Carried slots are
// grouped by weekday of their original start; each group lands on the first
// date with that weekday strictly after the anchor, where the anchor is the
// max kept start date (or now's day when nothing is kept). "Strictly after"
// guarantees a carried slot never collides with a kept slot on the anchor
// date itself. Time-of-day and duration are preserved. With spreadWeekly the
// group's target advances one week per slot; otherwise all slots of a group
// share the target date and differ only by time-of-day.
//
// The slot count is conserved exactly. Repeated invocation with an advancing
// clock keeps carrying further slots forward; that is intended, the function
// runs opportunistically on every preview/generate.
func CarryForward(slots []PreviewSlot, now time.Time, spreadWeekly bool) []PreviewSlot {
	if len(slots) == 0 {
		return slots
	}

	var kept []PreviewSlot
	toCarryByDow := make(map[int][]PreviewSlot)

	for _, s := range slots {
		isPast := !s.EndTime.After(now)
		if isPast && slotIsOpen(s) {
			dow := int(s.StartTime.Weekday())
			toCarryByDow[dow] = append(toCarryByDow[dow], s)
		} else {
			kept = append(kept, s)
		}
	}
	if len(toCarryByDow) == 0 {
		return slots
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartTime.Before(kept[j].StartTime)
	})
	anchor := StartOfDay(now)
	if len(kept) > 0 {
		anchor = StartOfDay(kept[len(kept)-1].StartTime)
	}

	result := make([]PreviewSlot, len(kept), len(slots))
	copy(result, kept)

	// Weekday groups in Monday-first order so output is deterministic.
	for _, dow := range monFirstOrder {
		group := toCarryByDow[dow]
		if len(group) == 0 {
			continue
		}
		// Same-weekday carried slots keep their relative time-of-day order.
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime.Before(group[j].StartTime)
		})

		target := nextDateWithWeekday(anchor, dow)
		for _, s := range group {
			newStart := copyTimeOfDay(s.StartTime, target)
			durMin := int(s.EndTime.Sub(s.StartTime).Round(time.Minute) / time.Minute)
			newEnd := newStart.Add(time.Duration(durMin) * time.Minute)

			carried := s
			carried.Date = ISODate(newStart)
			carried.StartTime = newStart
			carried.EndTime = newEnd
			carried.Origin = OriginCarried
			result = append(result, carried)

			if spreadWeekly {
				target = target.AddDate(0, 0, 7)
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result
}
