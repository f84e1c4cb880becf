/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"sort"

	"github.com/friendsincode/courtplan/internal/analyzer"
	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// compact runs the post-assignment local search: relocate any flexible
// record to another court whenever the move fits and strictly reduces
// the globally recomputed total gap minutes. The search is a greedy
// hill-climb bounded by flexibleCount x resourceCount trial iterations
// and stops after the first full pass without improvement.
func (a *Assigner) compact(assignments []booking.Assignment) []booking.Assignment {
	flexCount := 0
	for _, p := range assignments {
		if !p.Pinned() {
			flexCount++
		}
	}
	bound := flexCount * len(a.cfg.Resources)
	if bound == 0 {
		return assignments
	}

	current := analyzer.TotalGapMinutes(assignments, a.cfg.Resources, a.cfg.Hours)
	iterations := 0

	for {
		improved := false
		for i := range assignments {
			if assignments[i].Pinned() {
				continue
			}
			for _, res := range a.cfg.Resources {
				if iterations >= bound {
					return assignments
				}
				iterations++
				if res.ID == assignments[i].ResourceID {
					continue
				}
				if !fitsOnResource(assignments, i, res.ID, a.cfg.Hours) {
					continue
				}
				trial := relocate(assignments, i, res.ID)
				trialGap := analyzer.TotalGapMinutes(trial, a.cfg.Resources, a.cfg.Hours)
				if trialGap < current {
					assignments = trial
					current = trialGap
					improved = true
					break
				}
			}
		}
		if !improved {
			return assignments
		}
	}
}

// fitsOnResource reports whether record i's slot fits into a free slot
// on the target court, ignoring record i itself.
func fitsOnResource(assignments []booking.Assignment, i int, resourceID string, hours booking.OperatingHours) bool {
	var slots []interval.Slot
	for j, p := range assignments {
		if j != i && p.ResourceID == resourceID {
			slots = append(slots, p.Slot)
		}
	}
	sort.Slice(slots, func(a, b int) bool { return slots[a].Start < slots[b].Start })
	for _, free := range interval.FreeSlots(slots, hours.Open, hours.Close) {
		if interval.Fits(assignments[i].Slot, free) {
			return true
		}
	}
	return false
}

// relocate copies the state with record i moved to the target court.
func relocate(assignments []booking.Assignment, i int, resourceID string) []booking.Assignment {
	trial := make([]booking.Assignment, len(assignments))
	copy(trial, assignments)
	trial[i].ResourceID = resourceID
	return trial
}

// reduceSplits tries, once per split group, to reunify the fragments
// on a single court. A court qualifies when every flexible booking of
// its own that overlaps the reservation's full span can be relocated
// elsewhere (trial-checked) and the reunified span then fits. On
// success all relocations commit together with one non-split
// assignment; otherwise the split stays.
func (a *Assigner) reduceSplits(assignments []booking.Assignment) []booking.Assignment {
	for _, group := range booking.GroupByReservation(assignments) {
		if len(group.Fragments) < 2 || !group.Fragments[0].Split {
			continue
		}

		span := interval.Slot{
			Start: group.Fragments[0].Slot.Start,
			End:   group.Fragments[len(group.Fragments)-1].Slot.End,
		}

		if merged, ok := a.tryReunify(assignments, group, span); ok {
			assignments = merged
		}
	}
	return assignments
}

// tryReunify attempts to place the full span on each court in turn.
func (a *Assigner) tryReunify(assignments []booking.Assignment, group booking.ReservationGroup, span interval.Slot) ([]booking.Assignment, bool) {
	// Strip the group's own fragments from the working state first.
	base := make([]booking.Assignment, 0, len(assignments))
	for _, p := range assignments {
		if p.ID != group.ReservationID {
			base = append(base, p)
		}
	}

	for _, res := range a.cfg.Resources {
		trial, ok := a.evictConflicts(base, res.ID, span)
		if !ok {
			continue
		}
		if !spanFits(trial, res.ID, span, a.cfg.Hours) {
			continue
		}

		unified := group.Fragments[0]
		unified.Slot = span
		unified.Split = false
		unified.ResourceID = res.ID
		a.logger.Debug().Str("reservation", group.ReservationID).Str("resource", res.ID).Msg("split reunified")
		return append(trial, unified), true
	}
	return nil, false
}

// evictConflicts trial-relocates every flexible booking on the court
// that overlaps the span. Any pinned conflict, or any conflict with no
// viable new home, disqualifies the court.
func (a *Assigner) evictConflicts(base []booking.Assignment, resourceID string, span interval.Slot) ([]booking.Assignment, bool) {
	trial := make([]booking.Assignment, len(base))
	copy(trial, base)

	for i := range trial {
		if trial[i].ResourceID != resourceID || !interval.Overlaps(trial[i].Slot, span) {
			continue
		}
		if trial[i].Pinned() {
			return nil, false
		}
		moved := false
		for _, other := range a.cfg.Resources {
			if other.ID == resourceID {
				continue
			}
			if fitsOnResource(trial, i, other.ID, a.cfg.Hours) {
				trial[i].ResourceID = other.ID
				moved = true
				break
			}
		}
		if !moved {
			return nil, false
		}
	}
	return trial, true
}

// spanFits reports whether the full span fits into a free slot on the
// court in the given state.
func spanFits(assignments []booking.Assignment, resourceID string, span interval.Slot, hours booking.OperatingHours) bool {
	for _, free := range booking.FreeSlotsOn(assignments, resourceID, hours) {
		if interval.Fits(span, free) {
			return true
		}
	}
	return false
}
