package domain

import "encoding/json"

// WeekdayPatterns is a list of weekday patterns (0=Sunday..6=Saturday).
//
// Older clients send a single flat pattern ([1,3,5]) where newer ones send a
// list of patterns ([[1,3,5],[2,4,6]]). The coercion from flat to nested
// happens here, once, at the JSON boundary, so everything downstream deals
// with exactly one shape. Malformed input yields an empty list rather than an
// error; out-of-range values are filtered later during normalization.
type WeekdayPatterns [][]int

// UnmarshalJSON accepts either [[1,3,5],[2,4,6]] or the legacy flat [1,3,5].
func (w *WeekdayPatterns) UnmarshalJSON(data []byte) error {
	var nested [][]int
	if err := json.Unmarshal(data, &nested); err == nil {
		*w = nested
		return nil
	}
	var flat []int
	if err := json.Unmarshal(data, &flat); err == nil {
		if len(flat) == 0 {
			*w = WeekdayPatterns{}
			return nil
		}
		*w = WeekdayPatterns{flat}
		return nil
	}
	// Tolerate anything else (null, objects from buggy clients) as empty.
	*w = WeekdayPatterns{}
	return nil
}
