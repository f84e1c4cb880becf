/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package simulation

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/friendsincode/courtplan/internal/booking"
	"github.com/friendsincode/courtplan/internal/interval"
)

func testResources(n int) []booking.Resource {
	names := []string{"court-1", "court-2", "court-3", "court-4"}
	out := make([]booking.Resource, n)
	for i := range out {
		out[i] = booking.Resource{ID: names[i], Name: names[i]}
	}
	return out
}

var testHours = booking.OperatingHours{Open: 480, Close: 1320, MinSlotDuration: 30}

func testDemand() DemandParams {
	return DemandParams{
		MeanDailyCount: 18,
		LockedFraction: 0.3,
		VarianceCoeff:  0.2,
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	first := newGenerator(rand.New(rand.NewSource(99)), testResources(3), testHours, testDemand()).Generate()
	second := newGenerator(rand.New(rand.NewSource(99)), testResources(3), testHours, testDemand()).Generate()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different workloads")
	}
	if len(first) == 0 {
		t.Fatal("generator produced an empty workload for a positive mean")
	}
}

func TestGenerateRespectsFeasibilityTracker(t *testing.T) {
	resources := testResources(3)
	demand := testDemand()
	demand.MeanDailyCount = 60 // saturate so the tracker has to bind

	for seed := int64(1); seed <= 5; seed++ {
		reservations := newGenerator(rand.New(rand.NewSource(seed)), resources, testHours, demand).Generate()

		cfg := booking.Config{Resources: resources, Hours: testHours}
		if err := booking.ValidateReservations(reservations, cfg); err != nil {
			t.Fatalf("seed %d: generated workload invalid: %v", seed, err)
		}

		for minute := testHours.Open; minute < testHours.Close; minute++ {
			concurrent := 0
			for _, r := range reservations {
				if r.Slot.Start <= minute && minute < r.Slot.End {
					concurrent++
				}
			}
			if concurrent > len(resources) {
				t.Fatalf("seed %d: %d concurrent reservations at minute %d, courts only %d",
					seed, concurrent, minute, len(resources))
			}
		}

		for i, a := range reservations {
			if !a.Pinned() {
				continue
			}
			for _, b := range reservations[i+1:] {
				if b.Pinned() && b.PinnedResourceID == a.PinnedResourceID && interval.Overlaps(a.Slot, b.Slot) {
					t.Fatalf("seed %d: pinned collision on %s: %v and %v", seed, a.PinnedResourceID, a.Slot, b.Slot)
				}
			}
		}
	}
}

func TestGenerateZeroMeanIsEmpty(t *testing.T) {
	demand := testDemand()
	demand.MeanDailyCount = 0
	demand.VarianceCoeff = 0

	if got := newGenerator(rand.New(rand.NewSource(1)), testResources(2), testHours, demand).Generate(); len(got) != 0 {
		t.Errorf("zero-mean demand generated %d reservations", len(got))
	}
}

func TestSampleDurationFollowsMix(t *testing.T) {
	demand := testDemand()
	demand.DurationMix = []DurationWeight{{Minutes: 60, Weight: 1}, {Minutes: 120, Weight: 0}}

	g := newGenerator(rand.New(rand.NewSource(5)), testResources(2), testHours, demand)
	for i := 0; i < 100; i++ {
		if d := g.sampleDuration(); d != 60 {
			t.Fatalf("zero-weight duration %d drawn", d)
		}
	}
}
