/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"github.com/friendsincode/courtplan/internal/analyzer"
	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// DefaultMaxChainDepth bounds the chained-reassignment rounds after a
// cancellation.
const DefaultMaxChainDepth = 2

// Cancel removes the reservation (all fragments, when split) from the
// current result and runs up to maxChainDepth rounds of the single
// best beneficial relocation: the flexible record whose move to
// another court strictly reduces the recomputed total gap minutes the
// most, ties preferring a landing adjacent to an existing booking.
// Pinned records never move. An unknown id is an idempotent no-op with
// freshly recomputed gap metrics.
func Cancel(reservationID string, current booking.Result, cfg booking.Config, maxChainDepth int) booking.Result {
	assignments := make([]booking.Assignment, 0, len(current.Assignments))
	removed := false
	for _, p := range current.Assignments {
		if p.ID == reservationID {
			removed = true
			continue
		}
		assignments = append(assignments, p)
	}

	if !removed {
		return finalize(current.Assignments, current.Unassigned, cfg)
	}

	gap := analyzer.TotalGapMinutes(assignments, cfg.Resources, cfg.Hours)
	for round := 0; round < maxChainDepth; round++ {
		moved, newGap, ok := bestRelocation(assignments, gap, cfg)
		if !ok {
			break
		}
		assignments = moved
		gap = newGap
	}

	return finalize(assignments, current.Unassigned, cfg)
}

// bestRelocation scans the whole state for the single relocation with
// the largest strict gap reduction.
func bestRelocation(assignments []booking.Assignment, gap int, cfg booking.Config) ([]booking.Assignment, int, bool) {
	bestGap := gap
	bestAdjacent := false
	var best []booking.Assignment

	for i := range assignments {
		if assignments[i].Pinned() {
			continue
		}
		for _, res := range cfg.Resources {
			if res.ID == assignments[i].ResourceID {
				continue
			}
			if !fitsOnResource(assignments, i, res.ID, cfg.Hours) {
				continue
			}
			trial := relocate(assignments, i, res.ID)
			trialGap := analyzer.TotalGapMinutes(trial, cfg.Resources, cfg.Hours)
			if trialGap > bestGap {
				continue
			}
			adjacent := landsAdjacent(trial, i, res.ID)
			if trialGap < bestGap || (trialGap == bestGap && bestGap < gap && adjacent && !bestAdjacent) {
				best = trial
				bestGap = trialGap
				bestAdjacent = adjacent
			}
		}
	}

	if best == nil || bestGap >= gap {
		return nil, gap, false
	}
	return best, bestGap, true
}

// landsAdjacent reports whether record i touches another booking on
// its new court.
func landsAdjacent(assignments []booking.Assignment, i int, resourceID string) bool {
	for j, p := range assignments {
		if j == i || p.ResourceID != resourceID {
			continue
		}
		if interval.Adjacent(p.Slot, assignments[i].Slot) {
			return true
		}
	}
	return false
}
