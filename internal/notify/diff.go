// Package notify computes what changed between two sightings of a
// meetup and turns the result into creator notifications.
package notify

import (
	"sort"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

// UserSnapshot is one respondent's last-notified state.
type UserSnapshot struct {
	User     domain.Respondent
	Selected []string
}

// Snapshot is the last-notified selections of every respondent of a
// meetup, keyed by respondent id. It is the diff baseline: process
// local, never persisted, rebuilt silently after a restart.
type Snapshot map[int64]UserSnapshot

// SnapshotOf captures the current meetup state as a Snapshot. Slot key
// slices are copied so later meetup mutations cannot leak in.
func SnapshotOf(m *domain.Meetup) Snapshot {
	snap := make(Snapshot, len(m.Users))
	for _, u := range m.Users {
		snap[u.User.ID] = UserSnapshot{
			User:     u.User,
			Selected: append([]string(nil), u.Selected...),
		}
	}
	return snap
}

// UserChanges lists one respondent's added and removed slot keys,
// each sorted chronologically.
type UserChanges struct {
	Added   []string
	Removed []string
}

// Diff is the outcome of comparing a previous snapshot with the
// current meetup state.
type Diff struct {
	// Withdrawn lists respondents present in the snapshot but gone
	// from the current respondent list, ordered by id.
	Withdrawn []domain.Respondent
	// Changes maps respondent id to their added/removed keys. Only
	// respondents with at least one change appear.
	Changes map[int64]UserChanges
}

// Empty reports whether the diff carries no changes at all. An empty
// diff must never trigger a notification; this also guards against the
// engine's own snapshot write-back re-entering the change path.
func (d Diff) Empty() bool {
	return len(d.Withdrawn) == 0 && len(d.Changes) == 0
}

// Compare diffs the current meetup state against a previous snapshot.
// A respondent absent from the snapshot contributes all their current
// keys as added; one present in both contributes the two set
// differences. Baseline capture (no snapshot at all) is handled by the
// caller, not here.
func Compare(prev Snapshot, m *domain.Meetup) Diff {
	current := make(map[int64][]string, len(m.Users))
	for _, u := range m.Users {
		current[u.User.ID] = u.Selected
	}

	d := Diff{Changes: make(map[int64]UserChanges)}

	for id, us := range prev {
		if _, ok := current[id]; !ok {
			d.Withdrawn = append(d.Withdrawn, us.User)
		}
	}
	sort.Slice(d.Withdrawn, func(i, j int) bool { return d.Withdrawn[i].ID < d.Withdrawn[j].ID })

	for _, u := range m.Users {
		var added, removed []string
		if prevUser, ok := prev[u.User.ID]; ok {
			added = diffKeys(u.Selected, prevUser.Selected)
			removed = diffKeys(prevUser.Selected, u.Selected)
		} else {
			added = append([]string(nil), u.Selected...)
		}
		if len(added) == 0 && len(removed) == 0 {
			continue
		}
		SortSlotKeys(added)
		SortSlotKeys(removed)
		d.Changes[u.User.ID] = UserChanges{Added: added, Removed: removed}
	}

	return d
}

// diffKeys returns the keys of a that are not in b.
func diffKeys(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, k := range b {
		inB[k] = struct{}{}
	}
	var out []string
	for _, k := range a {
		if _, ok := inB[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// SortSlotKeys orders slot keys chronologically: by date, then by
// decoded minute. Plain string sorting is wrong here since "1000"
// sorts before "999".
func SortSlotKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		mi, di := domain.DecodeSlot(keys[i])
		mj, dj := domain.DecodeSlot(keys[j])
		if di != dj {
			return di < dj
		}
		return mi < mj
	})
}
