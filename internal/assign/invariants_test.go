/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package assign

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// randomWorkload builds a valid but deliberately contentious day: many
// overlapping requests, a quarter of them pinned.
func randomWorkload(rng *rand.Rand, cfg booking.Config, count int) []booking.Reservation {
	durations := []int{60, 90, 120}
	reservations := make([]booking.Reservation, 0, count)
	for i := 0; i < count; i++ {
		d := durations[rng.Intn(len(durations))]
		latest := (cfg.Hours.Close - d - cfg.Hours.Open) / 30
		start := cfg.Hours.Open + 30*rng.Intn(latest+1)
		r := booking.Reservation{
			ID:   fmt.Sprintf("r%03d", i),
			Slot: interval.Slot{Start: start, End: start + d},
			Mode: booking.ModeFlexible,
		}
		if rng.Float64() < 0.25 {
			r.Mode = booking.ModePinned
			r.PinnedResourceID = cfg.Resources[rng.Intn(len(cfg.Resources))].ID
		}
		reservations = append(reservations, r)
	}
	return reservations
}

func checkResultInvariants(t *testing.T, cfg booking.Config, reservations []booking.Reservation, result booking.Result) {
	t.Helper()

	byID := make(map[string]booking.Reservation, len(reservations))
	for _, r := range reservations {
		byID[r.ID] = r
	}

	// Every placement sits on a known court, inside operating hours.
	for _, a := range result.Assignments {
		if !cfg.HasResource(a.ResourceID) {
			t.Errorf("%s placed on unknown court %q", a.ID, a.ResourceID)
		}
		if a.Slot.Start < cfg.Hours.Open || a.Slot.End > cfg.Hours.Close || !a.Slot.Valid() {
			t.Errorf("%s placed outside operating hours: %v", a.ID, a.Slot)
		}
		if a.Pinned() && a.ResourceID != a.PinnedResourceID {
			t.Errorf("pinned %s landed on %s, want %s", a.ID, a.ResourceID, a.PinnedResourceID)
		}
	}

	// No double booking on any court.
	for _, res := range cfg.Resources {
		slots := booking.SlotsOn(result.Assignments, res.ID)
		for i := 1; i < len(slots); i++ {
			if interval.Overlaps(slots[i-1], slots[i]) {
				t.Errorf("double booking on %s: %v and %v", res.ID, slots[i-1], slots[i])
			}
		}
	}

	// Each reservation is either fully assigned or fully unassigned,
	// and fragments tile the requested interval exactly.
	assigned := make(map[string]bool)
	for _, group := range booking.GroupByReservation(result.Assignments) {
		assigned[group.ReservationID] = true
		want := byID[group.ReservationID].Slot
		cursor := want.Start
		for _, f := range group.Fragments {
			if f.Slot.Start != cursor {
				t.Errorf("%s fragments leave hole at %d: %+v", group.ReservationID, cursor, group.Fragments)
				break
			}
			cursor = f.Slot.End
		}
		if cursor != want.End {
			t.Errorf("%s fragments cover up to %d, want %d", group.ReservationID, cursor, want.End)
		}
	}
	for _, u := range result.Unassigned {
		if assigned[u.ID] {
			t.Errorf("%s is both assigned and unassigned", u.ID)
		}
	}
	if got, want := len(assigned)+len(result.Unassigned), len(reservations); got != want {
		t.Errorf("accounted for %d reservations, want %d", got, want)
	}

	// The gap total is exactly the unbooked operating time.
	booked := 0
	for _, a := range result.Assignments {
		booked += a.Slot.Duration()
	}
	if want := len(cfg.Resources)*cfg.Hours.Window() - booked; result.TotalGapMinutes != want {
		t.Errorf("TotalGapMinutes = %d, want %d", result.TotalGapMinutes, want)
	}
	if result.Fragmentation < 0 || result.Fragmentation > 1 {
		t.Errorf("Fragmentation = %v, want [0, 1]", result.Fragmentation)
	}
}

func TestAssignInvariantsUnderLoad(t *testing.T) {
	for _, splitting := range []bool{false, true} {
		for seed := int64(1); seed <= 3; seed++ {
			name := fmt.Sprintf("splitting=%v/seed=%d", splitting, seed)
			t.Run(name, func(t *testing.T) {
				cfg := testConfig(4)
				cfg.AllowSplitting = splitting
				rng := rand.New(rand.NewSource(seed))
				reservations := randomWorkload(rng, cfg, 40)

				if err := booking.ValidateReservations(reservations, cfg); err != nil {
					t.Fatalf("workload invalid: %v", err)
				}

				result := New(cfg, zerolog.Nop()).Assign(reservations)
				checkResultInvariants(t, cfg, reservations, result)
			})
		}
	}
}

func TestNaiveInvariantsUnderLoad(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			cfg := testConfig(4)
			rng := rand.New(rand.NewSource(seed))
			reservations := randomWorkload(rng, cfg, 40)

			result := Naive(reservations, cfg, rand.New(rand.NewSource(seed)))
			checkResultInvariants(t, cfg, reservations, result)
		})
	}
}
