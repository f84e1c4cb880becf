/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"sort"

	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// tieEpsilon is the score distance within which two candidate courts
// count as tied and the load tiebreaker decides.
const tieEpsilon = 0.001

// largeSlotShrinkThreshold is the relative shrink of the global
// largest free slot beyond which the preservation penalty applies.
const largeSlotShrinkThreshold = 0.3

// placementScore is the ephemeral scoring breakdown for one candidate
// (court, reservation) pair. Load is not part of Total; it only breaks
// near-ties.
type placementScore struct {
	ResourceID string
	Total      float64
	Adjacency  float64
	Contiguity float64
	GapPenalty float64
	Fill       float64
	LargeSlot  float64
	Load       int
}

// bestPlacement scores every court the reservation fits on and returns
// the winner. Near-ties within tieEpsilon go to the less-loaded court
// when splitting is disabled (spread) and to the more-loaded court
// when enabled (consolidate free time).
func (a *Assigner) bestPlacement(assignments []booking.Assignment, r booking.Reservation) (string, bool) {
	var best placementScore
	found := false

	for _, res := range a.cfg.Resources {
		score, ok := a.scoreCandidate(assignments, r, res.ID)
		if !ok {
			continue
		}
		if !found {
			best = score
			found = true
			continue
		}
		switch {
		case score.Total > best.Total+tieEpsilon:
			best = score
		case score.Total > best.Total-tieEpsilon:
			if a.cfg.AllowSplitting {
				if score.Load > best.Load {
					best = score
				}
			} else if score.Load < best.Load {
				best = score
			}
		}
	}

	if !found {
		return "", false
	}
	return best.ResourceID, true
}

// scoreCandidate computes the weighted placement score for one court,
// or reports false when the reservation does not fit there.
func (a *Assigner) scoreCandidate(assignments []booking.Assignment, r booking.Reservation, resourceID string) (placementScore, bool) {
	hours := a.cfg.Hours
	weights := a.cfg.EffectiveWeights()

	slots := booking.SlotsOn(assignments, resourceID)
	free := interval.FreeSlots(slots, hours.Open, hours.Close)

	fits := false
	for _, f := range free {
		if interval.Fits(r.Slot, f) {
			fits = true
			break
		}
	}
	if !fits {
		return placementScore{}, false
	}

	score := placementScore{
		ResourceID: resourceID,
		Load:       interval.BookedMinutes(slots),
	}

	for _, b := range slots {
		if interval.Adjacent(b, r.Slot) {
			score.Adjacency = weights.Adjacency
			break
		}
	}

	withPlacement := insertSorted(slots, r.Slot)

	oldRun := interval.LongestRun(slots)
	newRun := interval.LongestRun(withPlacement)
	if newRun > oldRun {
		score.Contiguity = weights.Contiguity * float64(newRun-oldRun) / float64(r.Slot.Duration())
	}

	newFree := interval.FreeSlots(withPlacement, hours.Open, hours.Close)
	if created := strandedCreated(free, newFree, hours.MinSlotDuration); created > 0 {
		score.GapPenalty = weights.GapPenalty * float64(created)
	}

	for _, f := range free {
		if f == r.Slot {
			score.Fill = weights.Fill
			break
		}
	}

	if a.cfg.AllowSplitting {
		before := booking.LargestFreeSlotAcross(assignments, a.cfg.Resources, hours)
		trial := append(append([]booking.Assignment(nil), assignments...), booking.Assignment{Reservation: r, ResourceID: resourceID})
		after := booking.LargestFreeSlotAcross(trial, a.cfg.Resources, hours)
		if before > 0 {
			shrink := 1 - float64(after)/float64(before)
			if shrink > largeSlotShrinkThreshold {
				score.LargeSlot = -weights.LargeSlotPreserve * shrink
			}
		}
	}

	score.Total = score.Adjacency + score.Contiguity + score.GapPenalty + score.Fill + score.LargeSlot
	return score, true
}

// insertSorted returns a copy of slots with s inserted in start order.
func insertSorted(slots []interval.Slot, s interval.Slot) []interval.Slot {
	out := make([]interval.Slot, 0, len(slots)+1)
	out = append(out, slots...)
	out = append(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// strandedCreated counts the stranded gaps the placement brings into
// existence: gaps below the minimum bookable duration that were not
// already free slots beforehand. A placement that swallows a stranded
// gap whole earns no credit, and one that shaves a stranded gap down
// to a smaller stranded gap still pays for the new gap.
func strandedCreated(before, after []interval.Slot, minDuration int) int {
	prior := make(map[interval.Slot]struct{}, len(before))
	for _, f := range before {
		prior[f] = struct{}{}
	}
	count := 0
	for _, f := range after {
		d := f.Duration()
		if d <= 0 || d >= minDuration {
			continue
		}
		if _, existed := prior[f]; !existed {
			count++
		}
	}
	return count
}
