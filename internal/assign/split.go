/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// fragment is one free-slot piece available to the split cover.
type fragment struct {
	resourceID string
	slot       interval.Slot
}

// trySplit covers the reservation's interval by concatenating free
// slots from multiple courts. It greedily picks, at each step, the
// fragment starting at-or-before the uncovered frontier that extends
// it furthest; unused remainders return to the pool. Either the whole
// interval is covered or nothing is committed.
func (a *Assigner) trySplit(assignments []booking.Assignment, r booking.Reservation) ([]booking.Assignment, bool) {
	var pool []fragment
	for _, res := range a.cfg.Resources {
		for _, free := range booking.FreeSlotsOn(assignments, res.ID, a.cfg.Hours) {
			if !interval.Overlaps(free, r.Slot) {
				continue
			}
			clipped := free
			if clipped.Start < r.Slot.Start {
				clipped.Start = r.Slot.Start
			}
			if clipped.End > r.Slot.End {
				clipped.End = r.Slot.End
			}
			pool = append(pool, fragment{resourceID: res.ID, slot: clipped})
		}
	}

	frontier := r.Slot.Start
	var picks []fragment

	for frontier < r.Slot.End {
		best := -1
		for i, f := range pool {
			if f.slot.Start > frontier || f.slot.End <= frontier {
				continue
			}
			if best == -1 || f.slot.End > pool[best].slot.End {
				best = i
			}
		}
		if best == -1 {
			a.logger.Debug().Str("reservation", r.ID).Int("frontier", frontier).Msg("split cover stalled")
			return nil, false
		}

		chosen := pool[best]
		piece := interval.Slot{Start: frontier, End: chosen.slot.End}
		picks = append(picks, fragment{resourceID: chosen.resourceID, slot: piece})

		pool = append(pool[:best], pool[best+1:]...)
		if chosen.slot.Start < frontier {
			// Unused leading remainder goes back to the pool. It ends
			// at the current frontier and the frontier only advances,
			// so no later pick can select it.
			pool = append(pool, fragment{resourceID: chosen.resourceID, slot: interval.Slot{Start: chosen.slot.Start, End: frontier}})
		}
		frontier = piece.End
	}

	fragments := make([]booking.Assignment, 0, len(picks))
	for _, p := range picks {
		frag := booking.Assignment{Reservation: r, ResourceID: p.resourceID, Split: true}
		frag.Slot = p.slot
		fragments = append(fragments, frag)
	}
	a.logger.Debug().Str("reservation", r.ID).Int("fragments", len(fragments)).Msg("reservation split across courts")
	return fragments, true
}
