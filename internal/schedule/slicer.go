package schedule

// Block is one session-sized chunk of a working interval, in minute offsets
// from midnight.
type Block struct {
	StartMin int
	EndMin   int
}

// SliceInterval cuts one working interval [startMin, endMin) into the maximal
// greedy sequence of session blocks: the first block starts at startMin, each
// subsequent block starts sessionMin+breakMin after the previous start, and
// slicing stops once a block would cross the interval end. Leftover time
// shorter than a session is dropped silently.
func SliceInterval(startMin, endMin, sessionMin, breakMin int) []Block {
	if sessionMin <= 0 || breakMin < 0 {
		return nil
	}
	var blocks []Block
	for cur := startMin; cur+sessionMin <= endMin; cur += sessionMin + breakMin {
		blocks = append(blocks, Block{StartMin: cur, EndMin: cur + sessionMin})
	}
	return blocks
}
