// Package rotation implements the fairness selection policy: the eligible
// member with the least-recent successful submission goes next, and a member
// who has never submitted ranks before anyone with a submission date.
package rotation

import (
	"sort"
	"time"

	"pinecrest.club/gazette/internal/model"
)

// Select picks the next contributor from pool given each member's most
// recent successful submission time (absent key = never submitted). Ties
// break by ascending member ID so the ordering is stable. Returns nil for
// an empty pool. Pure function: no side effects, no store access.
func Select(pool []model.Member, lastSubmitted map[int64]time.Time) *model.Member {
	if len(pool) == 0 {
		return nil
	}

	candidates := make([]model.Member, len(pool))
	copy(candidates, pool)

	sort.SliceStable(candidates, func(i, j int) bool {
		ti, iOK := lastSubmitted[candidates[i].ID]
		tj, jOK := lastSubmitted[candidates[j].ID]

		switch {
		case !iOK && !jOK:
			return candidates[i].ID < candidates[j].ID
		case !iOK:
			return true
		case !jOK:
			return false
		case !ti.Equal(tj):
			return ti.Before(tj)
		default:
			return candidates[i].ID < candidates[j].ID
		}
	})

	selected := candidates[0]
	return &selected
}

// CoachHistory derives the selection read model from past submitted coach
// rotations. History is never maintained as separate counters; it is always
// recomputed from the records themselves.
func CoachHistory(rotations []model.CoachRotation) map[int64]time.Time {
	history := make(map[int64]time.Time, len(rotations))
	for _, r := range rotations {
		if r.SubmittedAt == nil {
			continue
		}
		if last, ok := history[r.MemberID]; !ok || r.SubmittedAt.After(last) {
			history[r.MemberID] = *r.SubmittedAt
		}
	}
	return history
}

// HostHistory derives the same read model from past submitted host spots,
// used when declined hosts are reselected automatically.
func HostHistory(spots []model.HostSpot) map[int64]time.Time {
	history := make(map[int64]time.Time, len(spots))
	for _, s := range spots {
		if s.SubmittedAt == nil || s.MemberID == nil {
			continue
		}
		if last, ok := history[*s.MemberID]; !ok || s.SubmittedAt.After(last) {
			history[*s.MemberID] = *s.SubmittedAt
		}
	}
	return history
}
