package notify

import "github.com/HollaG/letsmeetup-bot/internal/domain"

// Range is a contiguous [Start, End) span of slot keys. End is
// exclusive, one half-hour past the last slot in the span (saturating
// at the day boundary like domain.AddHalfHour).
type Range struct {
	Start string
	End   string
}

// CompressRanges run-length encodes a chronologically sorted slot-key
// list into minimal contiguous ranges. A key extends the open range
// when it is on the same date exactly 30 minutes after the previous
// one; any gap or date change closes the range and opens a new one.
// Order of first appearance is preserved.
func CompressRanges(keys []string) []Range {
	if len(keys) == 0 {
		return nil
	}

	var ranges []Range
	start := keys[0]
	last := keys[0]
	for _, key := range keys[1:] {
		if !adjacent(last, key) {
			ranges = append(ranges, Range{Start: start, End: domain.AddHalfHour(last)})
			start = key
		}
		last = key
	}
	return append(ranges, Range{Start: start, End: domain.AddHalfHour(last)})
}

// adjacent reports whether next is the slot directly after cur.
func adjacent(cur, next string) bool {
	curMin, curDate := domain.DecodeSlot(cur)
	nextMin, nextDate := domain.DecodeSlot(next)
	return curDate == nextDate && nextMin == curMin+domain.MinutesPerSlot
}
