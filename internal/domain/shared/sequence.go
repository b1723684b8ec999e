package shared

import (
	"strconv"
	"strings"
)

// NextSequence returns the sequence that follows last, the highest number
// issued under prefix (e.g. "IMP-20260131-0007" under "IMP-20260131-").
// An empty or unparsable last starts the sequence at 1.
func NextSequence(prefix, last string) int {
	suffix, ok := strings.CutPrefix(last, prefix)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}
