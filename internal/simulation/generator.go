/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package simulation

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

// Per-reservation retry budget with fresh random parameters before the
// exhaustive grid scan kicks in.
const placementRetries = 8

// attemptFactor scales the outer generation budget relative to the
// target count.
const attemptFactor = 10

// generator produces one day's reservation set under a feasibility
// tracker so that the generated workload is placeable by construction:
// global concurrency never exceeds the court count, pinned
// reservations never collide on their court, and every flexible
// reservation has at least one court free of pinned bookings across
// its span.
type generator struct {
	rng       *rand.Rand
	resources []booking.Resource
	hours     booking.OperatingHours
	demand    DemandParams

	granularity int
	blocks      int
	global      []int             // concurrent reservations per block
	pinnedBusy  map[string][]bool // per court, blocks by pinned reservations
}

func newGenerator(rng *rand.Rand, resources []booking.Resource, hours booking.OperatingHours, demand DemandParams) *generator {
	granularity := hours.MinSlotDuration
	blocks := (hours.Window() + granularity - 1) / granularity
	pinnedBusy := make(map[string][]bool, len(resources))
	for _, r := range resources {
		pinnedBusy[r.ID] = make([]bool, blocks)
	}
	if len(demand.DurationMix) == 0 {
		demand.DurationMix = defaultDurationMix
	}
	return &generator{
		rng:         rng,
		resources:   resources,
		hours:       hours,
		demand:      demand,
		granularity: granularity,
		blocks:      blocks,
		global:      make([]int, blocks),
		pinnedBusy:  pinnedBusy,
	}
}

// Generate produces the day's reservation set. It keeps generating
// until the sampled target count is reached or the attempt budget is
// exhausted.
func (g *generator) Generate() []booking.Reservation {
	target := g.sampleCount()
	if target == 0 {
		return nil
	}

	out := make([]booking.Reservation, 0, target)
	budget := target*attemptFactor + attemptFactor
	for attempts := 0; len(out) < target && attempts < budget; attempts++ {
		if r, ok := g.generateOne(); ok {
			out = append(out, r)
		}
	}
	return out
}

// sampleCount draws the daily reservation count from a normal
// distribution around the mean, clamped to zero.
func (g *generator) sampleCount() int {
	mean := g.demand.MeanDailyCount
	count := mean + g.rng.NormFloat64()*mean*g.demand.VarianceCoeff
	if count < 0 {
		return 0
	}
	return int(math.Round(count))
}

// generateOne attempts one reservation: random parameters with a few
// retries, then an exhaustive scan of the time grid from a random
// offset before giving up.
func (g *generator) generateOne() (booking.Reservation, bool) {
	duration := g.sampleDuration()
	pinned := g.rng.Float64() < g.demand.LockedFraction
	resourceID := ""
	if pinned {
		resourceID = g.resources[g.rng.Intn(len(g.resources))].ID
	}

	maxStart := g.hours.Close - duration
	startChoices := (maxStart-g.hours.Open)/g.granularity + 1
	if startChoices <= 0 {
		return booking.Reservation{}, false
	}

	for try := 0; try < placementRetries; try++ {
		start := g.hours.Open + g.rng.Intn(startChoices)*g.granularity
		if g.feasible(start, duration, pinned, resourceID) {
			return g.commit(start, duration, pinned, resourceID), true
		}
	}

	offset := g.rng.Intn(startChoices)
	for i := 0; i < startChoices; i++ {
		start := g.hours.Open + ((offset+i)%startChoices)*g.granularity
		if g.feasible(start, duration, pinned, resourceID) {
			return g.commit(start, duration, pinned, resourceID), true
		}
	}
	return booking.Reservation{}, false
}

// sampleDuration draws from the weighted duration mix.
func (g *generator) sampleDuration() int {
	total := 0.0
	for _, dw := range g.demand.DurationMix {
		total += dw.Weight
	}
	if total <= 0 {
		return g.demand.DurationMix[0].Minutes
	}
	pick := g.rng.Float64() * total
	for _, dw := range g.demand.DurationMix {
		pick -= dw.Weight
		if pick < 0 {
			return dw.Minutes
		}
	}
	return g.demand.DurationMix[len(g.demand.DurationMix)-1].Minutes
}

// feasible checks the tracker: global concurrency stays below the
// court count across the span; pinned candidates need their court free
// of other pinned bookings; flexible candidates need at least one
// court entirely free of pinned bookings across the span.
func (g *generator) feasible(start, duration int, pinned bool, resourceID string) bool {
	from, to := g.blockRange(start, duration)
	for b := from; b < to; b++ {
		if g.global[b] >= len(g.resources) {
			return false
		}
	}
	if pinned {
		busy := g.pinnedBusy[resourceID]
		for b := from; b < to; b++ {
			if busy[b] {
				return false
			}
		}
		return true
	}
	for _, r := range g.resources {
		busy := g.pinnedBusy[r.ID]
		clear := true
		for b := from; b < to; b++ {
			if busy[b] {
				clear = false
				break
			}
		}
		if clear {
			return true
		}
	}
	return false
}

// commit records the reservation in the tracker and mints it.
func (g *generator) commit(start, duration int, pinned bool, resourceID string) booking.Reservation {
	from, to := g.blockRange(start, duration)
	for b := from; b < to; b++ {
		g.global[b]++
	}
	mode := booking.ModeFlexible
	if pinned {
		mode = booking.ModePinned
		busy := g.pinnedBusy[resourceID]
		for b := from; b < to; b++ {
			busy[b] = true
		}
	} else {
		resourceID = ""
	}

	return booking.Reservation{
		ID:               uuid.Must(uuid.NewRandomFromReader(g.rng)).String(),
		Slot:             interval.Slot{Start: start, End: start + duration},
		Mode:             mode,
		PinnedResourceID: resourceID,
	}
}

// blockRange maps a span to the half-open tracker block range covering
// it.
func (g *generator) blockRange(start, duration int) (int, int) {
	from := (start - g.hours.Open) / g.granularity
	to := (start + duration - g.hours.Open + g.granularity - 1) / g.granularity
	if to > g.blocks {
		to = g.blocks
	}
	return from, to
}
