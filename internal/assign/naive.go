/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"math/rand"

	"github.com/friendsincode/courtplan/internal/booking"
)

// Naive is the random-placement baseline: pinned requests follow the
// same rule as the smart assigner, flexible requests are processed in
// input order and land on the first fitting court of a shuffled court
// order. No scoring, no compaction, no splitting. The rng must be
// seeded by the caller; identical seeds give identical results.
func Naive(reservations []booking.Reservation, cfg booking.Config, rng *rand.Rand) booking.Result {
	pinned, flexible := partition(reservations)

	var assignments []booking.Assignment
	var unassigned []booking.Reservation

	assignments, unassigned = placePinned(assignments, unassigned, pinned, cfg)

	for _, r := range flexible {
		placed := false
		for _, idx := range rng.Perm(len(cfg.Resources)) {
			res := cfg.Resources[idx]
			if slotFree(assignments, res.ID, r, cfg.Hours) {
				assignments = append(assignments, booking.Assignment{Reservation: r, ResourceID: res.ID})
				placed = true
				break
			}
		}
		if !placed {
			unassigned = append(unassigned, r)
		}
	}

	return finalize(assignments, unassigned, cfg)
}
