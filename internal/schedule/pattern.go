package schedule

import (
	"sort"
	"strconv"
	"strings"
)

// monFirstOrder is the iteration order for weekdays: the week starts Monday
// and ends Sunday. Presentation/iteration choice only; it never changes which
// dates a pattern selects.
var monFirstOrder = [7]int{1, 2, 3, 4, 5, 6, 0}

func monFirstRank(weekday int) int {
	for i, d := range monFirstOrder {
		if d == weekday {
			return i
		}
	}
	return len(monFirstOrder)
}

// Pattern is a set of weekdays a package repeats on, held in canonical
// Monday-first order.
type Pattern []int

// NormalizePattern filters a raw weekday list to the valid 0..6 range,
// removes duplicates and sorts the survivors Monday-first. Out-of-range
// values are dropped silently; messy client input must never error here.
func NormalizePattern(days []int) Pattern {
	seen := make(map[int]bool, len(days))
	out := make(Pattern, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return monFirstRank(out[i]) < monFirstRank(out[j])
	})
	return out
}

// NormalizePatterns normalizes every pattern in the list and drops the ones
// that come out empty; an empty pattern selects no dates and is meaningless.
func NormalizePatterns(raw [][]int) []Pattern {
	out := make([]Pattern, 0, len(raw))
	for _, days := range raw {
		if p := NormalizePattern(days); len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Key returns the canonical identity of the pattern: weekdays in ascending
// numeric order joined by "-", e.g. "1-3-5". Two patterns are equal iff their
// keys are equal. Used for series identifiers and lookups.
func (p Pattern) Key() string {
	sorted := make([]int, len(p))
	copy(sorted, p)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "-")
}

// Contains reports whether the pattern includes the given weekday.
func (p Pattern) Contains(weekday int) bool {
	for _, d := range p {
		if d == weekday {
			return true
		}
	}
	return false
}
