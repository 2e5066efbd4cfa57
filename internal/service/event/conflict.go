package event

import (
	"sort"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/model"
)

// FindConflicts returns every event in set whose occupancy interval
// overlaps the candidate's, ordered by start_time ascending with id as
// the tiebreak. Overlap is half-open: touching boundaries do not
// conflict, and a zero-duration event conflicts only with an interval
// that strictly contains its instant.
//
// A persisted candidate never conflicts with itself. When the candidate
// is a proposed replacement for an existing record, excludeReplaced
// additionally drops set entries matching the candidate's name and start
// time, since the replacement has not been persisted yet.
//
// Pairwise scan, O(N*M). Fine at the expected tens of events per guild;
// switch to a sorted sweep if guild schedules ever grow unbounded.
func FindConflicts(set []model.Event, candidate *model.Event, excludeReplaced bool) []model.Event {
	var conflicts []model.Event
	for i := range set {
		other := &set[i]
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if excludeReplaced && other.Name == candidate.Name && other.StartTime.Equal(candidate.StartTime) {
			continue
		}
		if candidate.Overlaps(other) {
			conflicts = append(conflicts, *other)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if !conflicts[i].StartTime.Equal(conflicts[j].StartTime) {
			return conflicts[i].StartTime.Before(conflicts[j].StartTime)
		}
		return conflicts[i].ID < conflicts[j].ID
	})
	return conflicts
}
