// Package summary turns a meetup's raw slot selections into the
// human-readable availability digest broadcast to chats.
package summary

import (
	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// SameAsPrevious reports whether the slot immediately before key (same
// date, 30 minutes earlier) has the exact same respondent set. When it
// does, key is a continuation of the previous slot's range and must not
// be rendered on its own line. The first slot of a date never merges
// backward, and neither does a slot whose predecessor has no data.
func SameAsPrevious(key string, selections map[string][]domain.Respondent) bool {
	minute, date := domain.DecodeSlot(key)
	if minute < domain.MinutesPerSlot {
		return false
	}
	prevKey := domain.EncodeSlot(minute-domain.MinutesPerSlot, date)

	cur := selections[key]
	prev := selections[prevKey]
	if len(prev) == 0 || len(cur) == 0 || len(prev) != len(cur) {
		return false
	}

	seen := make(map[int64]struct{}, len(cur))
	for _, r := range cur {
		seen[r.ID] = struct{}{}
	}
	for _, r := range prev {
		if _, ok := seen[r.ID]; !ok {
			return false
		}
	}
	return true
}

// RunLength counts how many slots after key continue its range, i.e.
// how many subsequent slots are SameAsPrevious. Counting stops at the
// day boundary; a run never crosses midnight. The rendered range ends
// (RunLength+1) half-hours after the start: the count is of merge
// transitions, and the visible range spans one more slot than that.
func RunLength(key string, selections map[string][]domain.Respondent) int {
	minute, date := domain.DecodeSlot(key)
	next := minute + domain.MinutesPerSlot
	count := 0
	for next < domain.MinutesPerDay {
		if !SameAsPrevious(domain.EncodeSlot(next, date), selections) {
			break
		}
		count++
		next += domain.MinutesPerSlot
	}
	return count
}
